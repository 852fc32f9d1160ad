package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "portal",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Missing Credential", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverMySQL, Host: "localhost", Port: 3306})
		assert.ErrorIs(t, err, ErrMissingCredential)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		_, err := Connect(Config{Driver: "postgres"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("SQLite", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})
}

func TestMySQLDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.internal",
		Port:     3307,
		User:     "migrator",
		Password: "p@ss:w/rd ?#",
		Name:     "portal_prod",
	}

	parsed, err := mysqldriver.ParseDSN(mysqlDSN(cfg, 5*time.Second))
	require.NoError(t, err)

	assert.Equal(t, "migrator", parsed.User)
	assert.Equal(t, "p@ss:w/rd ?#", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "portal_prod", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, time.UTC, parsed.Loc)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
	assert.Equal(t, 5*time.Second, parsed.ReadTimeout)
	assert.Equal(t, "utf8mb4_general_ci", parsed.Collation)
}

func TestConfig_Resolve(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	t.Run("Credential File Overrides", func(t *testing.T) {
		path := write("creds.json", `{"host": "db.internal", "port": 3307, "user": "migrator", "password": "s3cret", "database": "portal_prod"}`)

		cfg, err := Config{Driver: DriverMySQL, Host: "localhost", Port: 3306, Name: "portal", CredentialsFile: path}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Host)
		assert.Equal(t, 3307, cfg.Port)
		assert.Equal(t, "migrator", cfg.User)
		assert.Equal(t, "s3cret", cfg.Password)
		assert.Equal(t, "portal_prod", cfg.Name)
	})

	t.Run("Partial File Keeps Config", func(t *testing.T) {
		path := write("partial.json", `{"user": "migrator", "password": "x"}`)

		cfg, err := Config{Host: "localhost", Port: 3306, Name: "portal", CredentialsFile: path}.Resolve()
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, "portal", cfg.Name)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Config{CredentialsFile: filepath.Join(dir, "absent.json")}.Resolve()
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("Malformed File", func(t *testing.T) {
		_, err := Config{CredentialsFile: write("bad.json", `{user:`)}.Resolve()
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("File Without User", func(t *testing.T) {
		_, err := Config{CredentialsFile: write("nouser.json", `{"password": "x"}`)}.Resolve()
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("SQLite Needs None", func(t *testing.T) {
		_, err := Config{Driver: DriverSQLite, Name: ":memory:"}.Resolve()
		assert.NoError(t, err)
	})
}

func TestNewConnectBackoff(t *testing.T) {
	bo := newConnectBackoff(2)
	assert.NotEqual(t, int64(-1), int64(bo.NextBackOff()))
	assert.NotEqual(t, int64(-1), int64(bo.NextBackOff()))
	assert.Equal(t, int64(-1), int64(bo.NextBackOff()), "stops after the configured retries")

	once := newConnectBackoff(-5)
	assert.Equal(t, int64(-1), int64(once.NextBackOff()))
}
