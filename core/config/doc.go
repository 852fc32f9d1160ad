// Package config provides configuration management for portal-migrate.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file, and an optional config.yaml next to it.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, write permission)
//   - Database: driver, connection details, credential file, documents table
//   - Storage: S3/MinIO credentials and bucket for inputs and snapshots
//   - Log: Logging level and format
//   - Migration: input file, target collection, batch size, date fields, identifier chains
//   - Reconcile: marker field and additional reconciliation rules
//
// Scalar settings are usually given as environment variables (MIGRATION_BATCH_SIZE,
// DATABASE_CREDENTIALS_FILE). Structured settings such as identifier chains
// and reconciliation rules belong in config.yaml.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Migration.BatchSize)
package config
