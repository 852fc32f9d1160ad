package reconciliation

import (
	"errors"

	"portal-migrate/core/logger"
	"portal-migrate/core/reconcile"
	"portal-migrate/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconcile")
	group.Get("/", h.HandleListRules)
	group.Post("/:rule", h.HandleRun)
}

// HandleListRules lists the registered rules.
func (h *Handler) HandleListRules(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"rules":        h.service.Rules(),
		"allow_writes": h.service.allowWrites,
	})
}

// HandleRun runs one rule and returns its report.
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("rule")
	dryRun := utils.ToBool(c.Query("dry_run"))

	report, err := h.service.Run(c.Context(), name, dryRun)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrUnknownRule):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, reconcile.ErrInvalidRule):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Reconciliation failed", zap.String("rule", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(report.Failed) > 0 {
		l.Warn("Reconciliation finished with failures",
			zap.String("rule", name),
			zap.Int("failed", len(report.Failed)))
	}
	return c.JSON(report)
}
