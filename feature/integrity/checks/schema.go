package checks

import (
	"fmt"

	"portal-migrate/core/database"
	"portal-migrate/core/docstore"

	"gorm.io/gorm"
)

// SchemaReport is the result of a documents table check.
type SchemaReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}

// CheckSchema verifies that table has every column the document store needs.
// A missing table is reported, not returned as an error.
func CheckSchema(db *gorm.DB, table string) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Table:          table,
		Matched:        true,
		MissingColumns: []string{},
		Errors:         []string{},
	}

	missing, err := database.MissingColumns(db, table, docstore.Columns)
	if err != nil {
		report.Matched = false
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
		return report, nil
	}
	if len(missing) > 0 {
		report.Matched = false
		report.MissingColumns = missing
	}
	return report, nil
}
