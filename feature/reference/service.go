package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portal-migrate/core/docstore"
	"portal-migrate/core/sequence"
	"portal-migrate/feature/portal"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidRequest is returned when a request cannot name a scope.
var ErrInvalidRequest = errors.New("invalid reference request")

// Request names the scope to allocate in.
type Request struct {
	// Collection holds the existing references.
	Collection string
	// Prefix defaults to the portal prefix of Collection.
	Prefix string
	// Year defaults to the current year.
	Year int
	// Field reads references from a document field instead of document keys.
	Field string
}

// Service allocates references.
type Service struct {
	store  docstore.Store
	logger *zap.Logger
	group  singleflight.Group
	now    func() time.Time
}

// NewService creates a new reference service.
func NewService(store docstore.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Scope resolves the defaults of req.
func (s *Service) Scope(req Request) (sequence.Scope, error) {
	if strings.TrimSpace(req.Collection) == "" {
		return sequence.Scope{}, fmt.Errorf("%w: collection is required", ErrInvalidRequest)
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		p, ok := portal.PrefixFor(req.Collection)
		if !ok {
			return sequence.Scope{}, fmt.Errorf("%w: no prefix known for %s", ErrInvalidRequest, req.Collection)
		}
		prefix = p
	}
	if strings.Contains(prefix, sequence.Delimiter) {
		return sequence.Scope{}, fmt.Errorf("%w: prefix %q contains %q", ErrInvalidRequest, prefix, sequence.Delimiter)
	}

	year := req.Year
	if year == 0 {
		year = s.now().Year()
	}
	if year < 1000 || year > 9999 {
		return sequence.Scope{}, fmt.Errorf("%w: year %d out of range", ErrInvalidRequest, year)
	}

	return sequence.Scope{Prefix: prefix, Year: year}, nil
}

// Next returns the next reference for req.
func (s *Service) Next(ctx context.Context, req Request) (string, error) {
	scope, err := s.Scope(req)
	if err != nil {
		return "", err
	}

	key := req.Collection + "|" + req.Field + "|" + scope.String()
	v, err, shared := s.group.Do(key, func() (any, error) {
		return sequence.NewAllocator(s.store, req.Collection, req.Field).Next(ctx, scope)
	})
	if err != nil {
		return "", err
	}

	ref := v.(string)
	s.logger.Debug("Reference allocated",
		zap.String("collection", req.Collection),
		zap.String("reference", ref),
		zap.Bool("shared", shared),
	)
	return ref, nil
}
