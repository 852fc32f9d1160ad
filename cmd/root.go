package cmd

import (
	"errors"
	"fmt"
	"os"

	"portal-migrate/core/batch"
	"portal-migrate/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "portal-migrate",
	Short: "Portal data migration and reconciliation",
	Long: `portal-migrate moves records from a legacy JSON export into the portal's
document store, keeps derived fields consistent with their source
collections and allocates sequential reference numbers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode separates partial writes from failures that stopped the run.
func exitCode(err error) int {
	if errors.Is(err, batch.ErrPartialWrite) {
		return 2
	}
	return 1
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding .env and config.yaml")
}
