package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE documents (collection TEXT, doc_key TEXT, data TEXT, updated_at DATETIME)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "documents")
	require.NoError(t, err)
	assert.Len(t, columns, 4)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "text", colMap["doc_key"])
	assert.Equal(t, "datetime", colMap["updated_at"])

	// PRAGMA table_info returns no rows for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE documents (collection TEXT, doc_key TEXT)").Error)

	required := []string{"collection", "doc_key", "data", "updated_at"}

	missing, err := MissingColumns(db, "documents", required)
	require.NoError(t, err)
	assert.Equal(t, []string{"data", "updated_at"}, missing)

	missing, err = MissingColumns(db, "absent", required)
	require.NoError(t, err)
	assert.Equal(t, required, missing)
}
