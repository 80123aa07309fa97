package sqlite

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_RecordsVersionAndIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrateUp(db))
	require.NoError(t, migrateUp(db), "second run must treat no change as success")

	var version int
	var dirty bool
	require.NoError(t, db.QueryRow(`SELECT version, dirty FROM `+migrationTable).Scan(&version, &dirty))
	assert.Equal(t, 1, version)
	assert.False(t, dirty)

	var name string
	require.NoError(t, db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'balance_reports'`).Scan(&name))
	assert.Equal(t, "balance_reports", name)
}
