package integrity

import (
	"context"

	"portal-migrate/core/storage"
	"portal-migrate/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	folders []string
	db      *gorm.DB
	table   string
	logger  *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket, snapshotPrefix string, db *gorm.DB, table string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:  client,
		bucket:  bucket,
		folders: checks.RequiredFolders(snapshotPrefix),
		db:      db,
		table:   table,
		logger:  logger,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, s.folders)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema verifies the documents table.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.table)
}

// Section is the outcome of one check in a combined report.
type Section struct {
	Status  string               `json:"status"`
	Error   string               `json:"error,omitempty"`
	Missing []string             `json:"missing,omitempty"`
	Schema  *checks.SchemaReport `json:"schema,omitempty"`
}

// Report combines every check.
type Report struct {
	Storage  Section `json:"storage"`
	Database Section `json:"database"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	return r.Storage.Status == "ok" && r.Database.Status == "ok"
}

// CheckAll runs every check. Failures are recorded in the report.
func (s *Service) CheckAll(ctx context.Context) Report {
	var report Report

	if missing, err := s.CheckStructure(ctx); err != nil {
		report.Storage = Section{Status: "error", Error: err.Error()}
	} else if len(missing) > 0 {
		report.Storage = Section{Status: "missing", Missing: missing}
	} else {
		report.Storage = Section{Status: "ok"}
	}

	if schema, err := s.CheckSchema(); err != nil {
		report.Database = Section{Status: "error", Error: err.Error()}
	} else if !schema.Matched {
		report.Database = Section{Status: "mismatch", Schema: schema}
	} else {
		report.Database = Section{Status: "ok", Schema: schema}
	}

	return report
}
