package cmd

import (
	"time"

	"portal-migrate/core/export"

	"github.com/spf13/cobra"
)

var (
	exportOut    string
	exportBucket bool
)

// exportCmd writes a collection as a re-importable JSON document.
var exportCmd = &cobra.Command{
	Use:   "export <collection>",
	Short: "Export a collection as JSON",
	Long: `Writes {"<collection>": [records...]} to a file, or to the storage bucket
with --bucket. The output can be imported again as is.

Examples:
  portal-migrate export clients --out clients.json
  portal-migrate export clients --bucket`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default <collection>.json), or object name with --bucket")
	exportCmd.Flags().BoolVar(&exportBucket, "bucket", false, "Write to the storage bucket instead of a local file")

	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	collection := args[0]

	e, err := setupStore(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	exporter := export.New(e.store, e.log)

	var (
		n      int
		target string
	)
	if exportBucket {
		client, err := e.storageClient()
		if err != nil {
			return err
		}
		target = exportOut
		if target == "" {
			target = export.SnapshotName("exports", collection, time.Now())
		}
		n, err = exporter.ToBucket(ctx, client, e.cfg.Storage.Bucket, target, collection)
		if err != nil {
			return err
		}
		target = e.cfg.Storage.Bucket + "/" + target
	} else {
		target = exportOut
		if target == "" {
			target = collection + ".json"
		}
		n, err = exporter.ToFile(ctx, collection, target)
		if err != nil {
			return err
		}
	}

	green.Fprintf(cmd.OutOrStdout(), "%s: %d records -> %s\n", collection, n, target)
	return nil
}
