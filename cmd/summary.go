package cmd

import (
	"fmt"
	"io"

	"portal-migrate/core/batch"
	"portal-migrate/core/importer"
	"portal-migrate/core/reconcile"

	"github.com/fatih/color"
)

// maxListed caps the per-record lines printed under a summary.
const maxListed = 10

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

func printImportSummary(w io.Writer, report *importer.Report) {
	title := "Import summary"
	if report.DryRun {
		title += " (dry run)"
	}
	bold.Fprintln(w, "\n"+title)

	for _, c := range report.Collections {
		cyan.Fprintf(w, "  %s\n", c.Collection)
		fmt.Fprintf(w, "    records:  %d\n", c.Records)
		if c.Purged > 0 || c.PurgeErr != nil {
			fmt.Fprintf(w, "    purged:   %d\n", c.Purged)
		}
		if c.PurgeErr != nil {
			red.Fprintf(w, "    purge failed: %v\n", c.PurgeErr)
			continue
		}
		if report.DryRun {
			green.Fprintf(w, "    planned:  %d\n", c.Planned)
		} else {
			green.Fprintf(w, "    written:  %d\n", c.Written)
		}
		printSkips(w, c.Skipped)
		printChunkFailures(w, c.Failed)
	}

	total := report.Totals()
	bold.Fprintf(w, "  total: %d written, %d skipped, %d failed, %d purged\n",
		total.Written, len(total.Skipped), total.FailedRecords(), report.Purged())
}

func printSkips(w io.Writer, skips []batch.Skip) {
	if len(skips) == 0 {
		return
	}
	yellow.Fprintf(w, "    skipped:  %d\n", len(skips))
	for i, s := range skips {
		if i == maxListed {
			fmt.Fprintf(w, "      ... %d more\n", len(skips)-maxListed)
			break
		}
		fmt.Fprintf(w, "      #%d: %s\n", s.Index, s.Reason)
	}
}

func printChunkFailures(w io.Writer, failures []batch.ChunkFailure) {
	if len(failures) == 0 {
		return
	}
	n := 0
	for _, f := range failures {
		n += len(f.Keys)
	}
	red.Fprintf(w, "    failed:   %d (in %d batches)\n", n, len(failures))
	for i, f := range failures {
		if i == maxListed {
			fmt.Fprintf(w, "      ... %d more batches\n", len(failures)-maxListed)
			break
		}
		fmt.Fprintf(w, "      batch %d (%d records): %v\n", f.Chunk, len(f.Keys), f.Err)
	}
}

func printReconcileSummary(w io.Writer, report *reconcile.Report) {
	title := "Reconciliation: " + report.Rule
	if report.DryRun {
		title += " (dry run)"
	}
	bold.Fprintln(w, "\n"+title)
	fmt.Fprintf(w, "  targets:    %d\n", report.Targets)
	fmt.Fprintf(w, "  unchanged:  %d\n", report.Unchanged)
	yellow.Fprintf(w, "  divergent:  %d\n", len(report.Deltas))
	for i, d := range report.Deltas {
		if i == maxListed {
			fmt.Fprintf(w, "    ... %d more\n", len(report.Deltas)-maxListed)
			break
		}
		fmt.Fprintf(w, "    %s: %v -> %v\n", d.Key, d.Stored, d.Computed)
	}
	if !report.DryRun {
		green.Fprintf(w, "  updated:    %d\n", report.Updated)
	}
	if len(report.Failed) > 0 {
		red.Fprintf(w, "  failed:     %d\n", len(report.Failed))
		for i, f := range report.Failed {
			if i == maxListed {
				fmt.Fprintf(w, "    ... %d more\n", len(report.Failed)-maxListed)
				break
			}
			fmt.Fprintf(w, "    %s: %s\n", f.Key, f.Error)
		}
	}
}
