package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"portal-migrate/core/docstore"
	"portal-migrate/core/value"

	"go.uber.org/zap"
)

// Engine runs reconciliation rules against a document store.
type Engine struct {
	store  docstore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates an engine over store.
func NewEngine(store docstore.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger, now: time.Now}
}

// Reconcile plans rule and, unless opts.DryRun is set, writes every delta.
// The error is only set when the run could not start; per-target problems
// are listed in Report.Failed.
func (e *Engine) Reconcile(ctx context.Context, rule Rule, opts Options) (*Report, error) {
	plan, err := e.Plan(ctx, rule)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Rule:      rule.Name,
		DryRun:    opts.DryRun,
		Targets:   plan.Targets,
		Unchanged: plan.Unchanged,
		Deltas:    plan.Deltas,
		Failed:    plan.Failed,
	}

	if !opts.DryRun {
		updated, failed := e.Apply(ctx, rule, plan)
		report.Updated = updated
		report.Failed = append(report.Failed, failed...)
	}

	e.logger.Info("Reconciliation finished",
		zap.String("rule", rule.Name),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("targets", report.Targets),
		zap.Int("divergent", len(report.Deltas)),
		zap.Int("updated", report.Updated),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// linkValue returns the value sources use to refer to target.
func linkValue(rule Rule, key string, target *value.Record) (string, error) {
	if rule.TargetLinkField == "" {
		return key, nil
	}
	v, ok := target.Lookup(rule.TargetLinkField)
	if !ok {
		return "", fmt.Errorf("%w: %s missing", ErrNoLinkValue, rule.TargetLinkField)
	}
	texts := value.TextList(v)
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrNoLinkValue, rule.TargetLinkField)
	}
	return texts[0], nil
}

// linkedSources returns the source documents whose link field refers to link,
// directly or as an item of a list. Links compare by text form, so a numeric
// link field matches a key imported from the same number.
func (e *Engine) linkedSources(ctx context.Context, rule Rule, link string) ([]docstore.Document, error) {
	docs, err := e.store.Query(ctx, rule.Source, rule.LinkField, docstore.OpRefers, value.String(link))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", rule.Source, rule.LinkField, err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}
