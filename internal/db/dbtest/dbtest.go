// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iMedia24/workplacify/internal/db"
)

// Setup opens a fresh sqlite database in the test's temp dir and applies
// all migrations. The database is closed when the test finishes.
func Setup(t *testing.T) *db.DB {
	t.Helper()

	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "workplacify.db")

	database, err := db.Open(ctx, db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.Migrate(ctx))
	return database
}

// Count returns the number of rows in table.
func Count(t *testing.T, database *db.DB, table string) int {
	t.Helper()

	var n int
	err := database.Select("COUNT(*)").From(table).
		QueryRowContext(context.Background()).
		Scan(&n)
	require.NoError(t, err)
	return n
}
