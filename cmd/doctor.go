package cmd

import (
	"errors"
	"fmt"
	"io"

	"portal-migrate/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var doctorFix bool

// doctorCmd checks the environment a migration depends on.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database schema and storage bucket",
	Long: `Verifies that the documents table has the expected columns and that the
storage bucket holds the imports/ and snapshot folders. With --fix the
missing folders are created.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing bucket folders")
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	// A failed connection is a finding, not a reason to skip the storage check.
	if err := e.connect(ctx); err != nil {
		e.log.Warn("Database unavailable", zap.Error(err))
	}

	client, err := e.storageClient()
	if err != nil {
		return err
	}

	svc := integrity.NewService(client, e.cfg.Storage.Bucket, e.cfg.Migration.SnapshotPrefix, e.db, e.cfg.Database.Table, e.log)
	report := svc.CheckAll(ctx)

	if doctorFix && report.Storage.Status == "missing" {
		if err := svc.FixStructure(ctx, report.Storage.Missing); err != nil {
			return fmt.Errorf("failed to fix bucket structure: %w", err)
		}
		report = svc.CheckAll(ctx)
	}

	printSection(out, "storage ("+e.cfg.Storage.Bucket+")", report.Storage)
	printSection(out, "database ("+e.cfg.Database.Table+")", report.Database)

	if !report.Healthy() {
		return errors.New("doctor found problems")
	}
	green.Fprintln(out, "\nAll checks passed")
	return nil
}

func printSection(w io.Writer, name string, s integrity.Section) {
	switch s.Status {
	case "ok":
		green.Fprintf(w, "  ✓ %s\n", name)
	case "error":
		red.Fprintf(w, "  ✗ %s: %s\n", name, s.Error)
	default:
		yellow.Fprintf(w, "  ! %s: %s\n", name, s.Status)
	}
	if len(s.Missing) > 0 {
		fmt.Fprintf(w, "      missing folders: %v\n", s.Missing)
	}
	if s.Schema != nil {
		if len(s.Schema.MissingColumns) > 0 {
			fmt.Fprintf(w, "      missing columns: %v\n", s.Schema.MissingColumns)
		}
		for _, msg := range s.Schema.Errors {
			fmt.Fprintf(w, "      %s\n", msg)
		}
	}
}
