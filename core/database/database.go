package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect resolves credentials, opens the configured database and pings it,
// retrying the ping with exponential backoff. A missing credential fails
// immediately with ErrMissingCredential.
func Connect(cfg Config) (*gorm.DB, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	var dialector gorm.Dialector
	switch cfg.driver() {
	case DriverMySQL:
		dialector = mysql.Open(mysqlDSN(cfg, time.Duration(timeout)*time.Second))
	case DriverSQLite:
		dialector = sqlite.Open(cfg.Name)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// GORM logging is silenced; the application logger reports failures.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if cfg.driver() == DriverSQLite {
		// SQLite allows one writer, and every connection to ":memory:" is a
		// separate database.
		sqlDB.SetMaxOpenConns(1)
	}

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
		defer cancel()
		return sqlDB.PingContext(ctx)
	}
	if err := backoff.Retry(ping, newConnectBackoff(cfg.ConnectRetries)); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// mysqlDSN formats the driver DSN. The driver takes user and password
// verbatim, so they are never URL encoded.
func mysqlDSN(cfg Config, timeout time.Duration) string {
	dc := mysqldriver.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dc.DBName = cfg.Name
	dc.ParseTime = true
	dc.Loc = time.UTC
	dc.Timeout = timeout
	dc.ReadTimeout = timeout
	dc.WriteTimeout = timeout
	dc.Collation = "utf8mb4_general_ci"
	return dc.FormatDSN()
}

// newConnectBackoff returns a fresh policy; BackOff values are stateful.
func newConnectBackoff(retries int) backoff.BackOff {
	if retries < 0 {
		retries = 0
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = 30 * time.Second
	return backoff.WithMaxRetries(bo, uint64(retries))
}
