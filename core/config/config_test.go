package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "documents", cfg.Database.Table)
	assert.Equal(t, 3, cfg.Database.ConnectRetries)
	assert.Equal(t, 500, cfg.Migration.BatchSize)
	assert.Equal(t, []string{"id", "referenceNumber", "projectId", "clientId"}, cfg.Migration.IDFields)
	assert.Contains(t, cfg.Migration.DateFields, "dueDate")
	assert.Equal(t, "updatedAt", cfg.Reconcile.MarkerField)
	assert.Empty(t, cfg.Reconcile.Rules)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("MIGRATION_BATCH_SIZE", "250")
	t.Setenv("MIGRATION_COLLECTION", "clients")
	t.Setenv("MIGRATION_DATE_FIELDS", "startDate,endDate")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 250, cfg.Migration.BatchSize)
	assert.Equal(t, "clients", cfg.Migration.Collection)
	assert.Equal(t, []string{"startDate", "endDate"}, cfg.Migration.DateFields)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STORAGE_BUCKET=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STORAGE_BUCKET") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Storage.Bucket)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
migration:
  chains:
    quotations: [quotationNumber, id]
reconcile:
  marker_field: lastSyncedAt
  rules:
    - name: client-contact-emails
      target: clients
      source: contacts
      link_field: clientId
      derived_field: contactEmails
      collect: email
server:
  port: "9090"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"quotationNumber", "id"}, cfg.Migration.Chains["quotations"])
	assert.Equal(t, "lastSyncedAt", cfg.Reconcile.MarkerField)
	require.Len(t, cfg.Reconcile.Rules, 1)
	assert.Equal(t, "client-contact-emails", cfg.Reconcile.Rules[0].Name)
	assert.Equal(t, "email", cfg.Reconcile.Rules[0].Collect)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
