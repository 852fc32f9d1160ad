package cmd

import (
	"errors"
	"fmt"

	"portal-migrate/core/reconcile"
	"portal-migrate/feature/portal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileAll    bool
	reconcileDryRun bool
	reconcileList   bool
)

// reconcileCmd keeps derived fields consistent with their source collections.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile [rule]...",
	Short: "Recompute derived fields from their source collections",
	Long: `Recomputes each derived field from its authoritative source collection and
writes it back only where the stored list differs (order and surrounding
whitespace are ignored).

Rules are the built-in portal rules plus the ones under reconcile.rules in
config.yaml.

Examples:
  # Show the registered rules
  portal-migrate reconcile --list

  # Report what would change
  portal-migrate reconcile client-project-names --dry-run

  # Run every rule
  portal-migrate reconcile --all`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileAll, "all", false, "Run every registered rule")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Report deltas without writing")
	reconcileCmd.Flags().BoolVar(&reconcileList, "list", false, "List the registered rules and exit")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	rules, err := reconcile.BuildRules(portal.Rules(), e.cfg.Reconcile)
	if err != nil {
		return err
	}

	if reconcileList {
		for _, r := range rules {
			cyan.Fprintf(out, "%s", r.Name)
			fmt.Fprintf(out, "  %s.%s <- %s.%s\n", r.Target, r.DerivedField, r.Source, r.LinkField)
		}
		return nil
	}

	selected, err := selectRules(rules, args, reconcileAll)
	if err != nil {
		return err
	}

	if err := e.connect(ctx); err != nil {
		return err
	}

	engine := reconcile.NewEngine(e.store, e.log)
	failures := 0
	for _, rule := range selected {
		report, err := engine.Reconcile(ctx, rule, reconcile.Options{DryRun: reconcileDryRun})
		if err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		printReconcileSummary(out, report)
		failures += len(report.Failed)
	}

	// Per-target failures leave their fields unchanged and are listed in the
	// summary; they do not fail the run.
	if failures > 0 {
		e.log.Warn("Reconciliation finished with failures", zap.Int("failed", failures))
	}
	return nil
}

// selectRules resolves rule names. all selects every rule.
func selectRules(rules []reconcile.Rule, names []string, all bool) ([]reconcile.Rule, error) {
	if all {
		return rules, nil
	}
	if len(names) == 0 {
		return nil, errors.New("name at least one rule or use --all (see --list)")
	}
	selected := make([]reconcile.Rule, 0, len(names))
	for _, name := range names {
		r, err := reconcile.Find(rules, name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, r)
	}
	return selected, nil
}
