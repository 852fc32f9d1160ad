package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"portal-migrate/core/loader"
	"portal-migrate/core/logger"
	"portal-migrate/core/middleware/auth"
	"portal-migrate/core/middleware/rayid"
	"portal-migrate/core/reconcile"
	"portal-migrate/feature/integrity"
	"portal-migrate/feature/portal"
	"portal-migrate/feature/reconciliation"
	"portal-migrate/feature/reference"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves reference allocation, reconciliation and health checks over HTTP.
Reconciliation write-backs are only performed when SERVER_ALLOW_WRITES is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. Configuration, logger and store
	e, err := setupStore(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	if err := e.cfg.Server.Validate(); err != nil {
		return err
	}
	logg := e.log
	zap.ReplaceGlobals(logg)

	client, err := e.storageClient()
	if err != nil {
		return err
	}

	rules, err := reconcile.BuildRules(portal.Rules(), e.cfg.Reconcile)
	if err != nil {
		return err
	}

	// 2. Fiber app
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// 3. Features
	mgr := loader.NewManager(logg)
	mgr.Register(reference.NewFeature(e.store, logg))
	mgr.Register(reconciliation.NewFeature(reconcile.NewEngine(e.store, logg), rules, e.cfg.Server.AllowWrites, logg))
	mgr.Register(integrity.NewFeature(client, e.cfg.Storage.Bucket, e.cfg.Migration.SnapshotPrefix, e.db, e.cfg.Database.Table, logg))

	// RayID first so every later log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	if e.cfg.Server.ApiKey == "" {
		logg.Warn("SERVER_API_KEY is empty, the API is unprotected")
	}
	app.Use(auth.New(auth.Config{ApiKey: e.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	// 4. Start server
	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", e.cfg.Server.Port), zap.Bool("allow_writes", e.cfg.Server.AllowWrites))
		errCh <- app.Listen(e.cfg.Server.Addr())
	}()

	// 5. Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sig:
	}
	logg.Info("Shutting down server...")
	return app.Shutdown()
}
