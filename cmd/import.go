package cmd

import (
	"fmt"
	"strings"

	"portal-migrate/core/batch"
	"portal-migrate/core/export"
	"portal-migrate/core/importer"
	"portal-migrate/core/purge"
	"portal-migrate/core/sanitize"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// objectScheme marks an input stored in the configured bucket.
const objectScheme = "s3://"

var (
	importInput      string
	importCollection string
	importPurge      bool
	importSnapshot   bool
	importDryRun     bool
	importYes        bool
	importBatchSize  int
)

// importCmd imports a legacy export into the document store.
var importCmd = &cobra.Command{
	Use:   "import [input]",
	Short: "Import a JSON export into the document store",
	Long: `Imports a JSON export: either an array of records for one collection or an
object mapping collection names to arrays of records.

Every record is sanitized, keyed by its identifier chain and written in
atomic batches of at most 500 documents. Records without an identifier are
skipped and reported. A failed batch does not stop the run but makes the
command exit non-zero.

With no arguments the input and collection come from MIGRATION_INPUT and
MIGRATION_COLLECTION. Inputs starting with s3:// are read from the
configured storage bucket.

Examples:
  # Import using the environment configuration
  portal-migrate import

  # Import clients from a local file, replacing the collection
  portal-migrate import clients.json --collection clients --purge --snapshot --yes

  # Check an export without writing
  portal-migrate import s3://imports/export.json --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importCollection, "collection", "", "Target collection for array input, or the one collection to take from object input")
	importCmd.Flags().BoolVar(&importPurge, "purge", false, "Delete every document of each imported collection first")
	importCmd.Flags().BoolVar(&importSnapshot, "snapshot", false, "Export each collection to the storage bucket before purging it")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Prepare everything but write nothing")
	importCmd.Flags().BoolVar(&importYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	importCmd.Flags().IntVar(&importBatchSize, "batch-size", 0, "Operations per batch (default from MIGRATION_BATCH_SIZE, max 500)")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := setupStore(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	mcfg := e.cfg.Migration
	importInput = mcfg.Input
	if len(args) == 1 {
		importInput = args[0]
	}
	if !cmd.Flags().Changed("collection") {
		importCollection = mcfg.Collection
	}
	size := mcfg.BatchSize
	if importBatchSize > 0 {
		size = importBatchSize
	}

	var src importer.Source = importer.FileSource(importInput)
	var snapshot purge.Snapshotter
	if strings.HasPrefix(importInput, objectScheme) || (importSnapshot && importPurge) {
		client, err := e.storageClient()
		if err != nil {
			return err
		}
		if object, ok := strings.CutPrefix(importInput, objectScheme); ok {
			src = importer.ObjectSource{Client: client, Bucket: e.cfg.Storage.Bucket, Object: object}
		}
		if importSnapshot && importPurge {
			snapshot = export.NewSnapshotter(export.New(e.store, e.log), client, e.cfg.Storage.Bucket, mcfg.SnapshotPrefix)
		}
	}

	writer := batch.NewWriter(e.store, e.log, batch.WithBatchSize(size))
	im := importer.New(writer,
		importer.WithPurger(purge.New(e.store, writer, e.log, snapshot)),
		importer.WithSanitizer(sanitize.New(sanitize.Options{DateFields: mcfg.DateFields})),
		importer.WithChains(mcfg.IdentifierChains()),
		importer.WithLogger(e.log),
	)

	if importPurge && !importDryRun {
		what := "--purge deletes every document of the imported collections before writing."
		if !confirmDestructiveAction(stdin, cmd.OutOrStdout(), importYes, what) {
			e.log.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	e.log.Info("Starting import",
		zap.String("input", src.String()),
		zap.String("collection", importCollection),
		zap.Int("batch_size", writer.BatchSize()),
		zap.Bool("purge", importPurge),
		zap.Bool("dry_run", importDryRun))

	report, err := im.Run(ctx, src, importer.Options{
		Collection: importCollection,
		Purge:      importPurge,
		DryRun:     importDryRun,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	printImportSummary(cmd.OutOrStdout(), report)
	return report.Err()
}
