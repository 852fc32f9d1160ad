package reconciliation

import (
	"context"

	"portal-migrate/core/reconcile"

	"go.uber.org/zap"
)

// Service runs named rules.
type Service struct {
	engine      *reconcile.Engine
	rules       []reconcile.Rule
	allowWrites bool
	logger      *zap.Logger
}

// NewService creates a new reconciliation service.
func NewService(engine *reconcile.Engine, rules []reconcile.Rule, allowWrites bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, rules: rules, allowWrites: allowWrites, logger: logger}
}

// Rules returns the registered rules.
func (s *Service) Rules() []reconcile.Rule {
	return s.rules
}

// Run reconciles the rule called name. dryRun is forced on when writes are
// not allowed.
func (s *Service) Run(ctx context.Context, name string, dryRun bool) (*reconcile.Report, error) {
	rule, err := reconcile.Find(s.rules, name)
	if err != nil {
		return nil, err
	}
	if !s.allowWrites && !dryRun {
		s.logger.Info("Writes disabled, running as dry run", zap.String("rule", name))
		dryRun = true
	}
	return s.engine.Reconcile(ctx, rule, reconcile.Options{DryRun: dryRun})
}
