package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"portal-migrate/core/config"
	"portal-migrate/core/database"
	"portal-migrate/core/docstore"
	"portal-migrate/core/logger"
	"portal-migrate/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is what every command needs: configuration, a logger and, once
// connected, the document store.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store *docstore.GormStore
}

// setup loads the configuration and builds the logger.
func setup() (*env, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &env{cfg: cfg, log: l}, nil
}

// setupStore is setup plus a connected, migrated document store. Missing
// credentials are fatal.
func setupStore(ctx context.Context) (*env, error) {
	e, err := setup()
	if err != nil {
		return nil, err
	}
	if err := e.connect(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *env) connect(ctx context.Context) error {
	db, err := database.Connect(e.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store := docstore.NewGormStore(db, e.cfg.Database.Table)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to prepare documents table: %w", err)
	}

	e.db = db
	e.store = store
	e.log.Info("Connected to document store",
		zap.String("driver", e.cfg.Database.Driver),
		zap.String("table", store.Table()))
	return nil
}

// storageClient creates the object storage client.
func (e *env) storageClient() (storage.Client, error) {
	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return client, nil
}

func (e *env) close() {
	_ = e.log.Sync()
	if e.db != nil {
		if sqlDB, err := e.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation unless yes is set.
func confirmDestructiveAction(in io.Reader, out io.Writer, yes bool, what string) bool {
	if yes {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprintf(out, "\n⚠️  %s\nType 'yes' to confirm: ", what)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin
