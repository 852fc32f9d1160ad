package reference

import (
	"errors"

	"portal-migrate/core/logger"
	"portal-migrate/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for references.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reference routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/references")
	group.Get("/:collection/next", h.HandleNext)
}

// HandleNext returns the next reference of a collection.
func (h *Handler) HandleNext(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req := Request{
		Collection: c.Params("collection"),
		Prefix:     c.Query("prefix"),
		Year:       utils.ToInt(c.Query("year")),
		Field:      c.Query("field"),
	}
	if raw := c.Query("year"); raw != "" && req.Year == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "year must be a positive number"})
	}

	ref, err := h.service.Next(c.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Reference allocation failed", zap.String("collection", req.Collection), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"collection": req.Collection,
		"reference":  ref,
	})
}
