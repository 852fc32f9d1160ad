package cmd

import (
	"fmt"

	"portal-migrate/core/batch"
	"portal-migrate/core/export"
	"portal-migrate/core/purge"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	purgeSnapshot bool
	purgeDryRun   bool
	purgeYes      bool
)

// purgeCmd deletes whole collections.
var purgeCmd = &cobra.Command{
	Use:   "purge <collection>...",
	Short: "Delete every document of one or more collections",
	Long: `Deletes every document of the named collections in batches.

Examples:
  # Count what would be deleted
  portal-migrate purge quotations --dry-run

  # Keep a copy in the storage bucket, then delete
  portal-migrate purge quotations chargeSlips --snapshot --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().BoolVar(&purgeSnapshot, "snapshot", false, "Export each collection to the storage bucket before deleting it")
	purgeCmd.Flags().BoolVar(&purgeDryRun, "dry-run", false, "Count documents without deleting them")
	purgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := setupStore(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	var snapshot purge.Snapshotter
	if purgeSnapshot {
		client, err := e.storageClient()
		if err != nil {
			return err
		}
		snapshot = export.NewSnapshotter(export.New(e.store, e.log), client, e.cfg.Storage.Bucket, e.cfg.Migration.SnapshotPrefix)
	}

	writer := batch.NewWriter(e.store, e.log, batch.WithBatchSize(e.cfg.Migration.BatchSize))
	coordinator := purge.New(e.store, writer, e.log, snapshot)

	if !purgeDryRun {
		what := fmt.Sprintf("This deletes every document in: %v", args)
		if !confirmDestructiveAction(stdin, cmd.OutOrStdout(), purgeYes, what) {
			e.log.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	out := cmd.OutOrStdout()
	var failed error
	for _, collection := range args {
		n, err := coordinator.Run(ctx, collection, purge.Options{DryRun: purgeDryRun})
		if err != nil {
			e.log.Error("Purge failed", zap.String("collection", collection), zap.Error(err))
			red.Fprintf(out, "  %s: purge failed after %d deletes: %v\n", collection, n, err)
			if failed == nil {
				failed = err
			}
			continue
		}
		if purgeDryRun {
			yellow.Fprintf(out, "  %s: %d documents would be deleted\n", collection, n)
		} else {
			green.Fprintf(out, "  %s: %d documents deleted\n", collection, n)
		}
	}
	return failed
}
