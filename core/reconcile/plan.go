package reconcile

import (
	"context"
	"fmt"

	"portal-migrate/core/value"

	"go.uber.org/zap"
)

// Plan computes the deltas for rule without writing anything.
// Targets are visited one at a time: read the target, then its sources.
func (e *Engine) Plan(ctx context.Context, rule Rule) (*Plan, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	keys, err := e.store.ListKeys(ctx, rule.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", rule.Target, err)
	}

	plan := &Plan{Rule: rule.Name, Targets: len(keys), Deltas: []Delta{}, Failed: []Failure{}}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		delta, changed, err := e.diff(ctx, rule, key)
		if err != nil {
			e.logger.Warn("Reconciliation failed for target",
				zap.String("rule", rule.Name),
				zap.String("key", key),
				zap.Error(err),
			)
			plan.Failed = append(plan.Failed, Failure{Key: key, Error: err.Error(), Err: err})
			continue
		}
		if !changed {
			plan.Unchanged++
			continue
		}
		plan.Deltas = append(plan.Deltas, delta)
	}
	return plan, nil
}

// diff computes the delta for one target. changed is false when the stored
// value already matches.
func (e *Engine) diff(ctx context.Context, rule Rule, key string) (Delta, bool, error) {
	target, err := e.store.Get(ctx, rule.Target, key)
	if err != nil {
		return Delta{}, false, err
	}
	link, err := linkValue(rule, key, target)
	if err != nil {
		return Delta{}, false, err
	}
	sources, err := e.linkedSources(ctx, rule, link)
	if err != nil {
		return Delta{}, false, err
	}
	computed, err := rule.Projection(sources)
	if err != nil {
		return Delta{}, false, fmt.Errorf("projection failed: %w", err)
	}

	var stored []string
	if v, ok := target.Lookup(rule.DerivedField); ok {
		stored = value.TextList(v)
	}
	if Equivalent(stored, computed) {
		return Delta{}, false, nil
	}
	if stored == nil {
		stored = []string{}
	}
	return Delta{Key: key, Stored: stored, Computed: computed}, true, nil
}

// Apply writes every delta in plan as its own single-document update and
// returns the number written plus the targets whose write failed.
func (e *Engine) Apply(ctx context.Context, rule Rule, plan *Plan) (int, []Failure) {
	var (
		updated int
		failed  []Failure
	)
	for _, delta := range plan.Deltas {
		fields := value.NewRecord().Set(rule.DerivedField, value.Strings(delta.Computed))
		if rule.MarkerField != "" {
			fields.Set(rule.MarkerField, value.Time(e.now()))
		}

		b := e.store.Batch()
		b.Update(rule.Target, delta.Key, fields)
		if err := b.Commit(ctx); err != nil {
			e.logger.Warn("Write-back failed, field left unchanged",
				zap.String("rule", rule.Name),
				zap.String("key", delta.Key),
				zap.Error(err),
			)
			failed = append(failed, Failure{Key: delta.Key, Error: err.Error(), Err: err})
			continue
		}
		updated++
		e.logger.Debug("Derived field updated",
			zap.String("rule", rule.Name),
			zap.String("key", delta.Key),
			zap.Strings("stored", delta.Stored),
			zap.Strings("computed", delta.Computed),
		)
	}
	return updated, failed
}
