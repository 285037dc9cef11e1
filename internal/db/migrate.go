package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate applies all pending schema migrations. Already-applied
// migrations are skipped, so it is safe to call on every start.
func (d *DB) Migrate(ctx context.Context) error {
	migrationFS, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("db: migrations fs: %w", err)
	}

	dialect := database.DialectPostgres
	if d.Driver == DriverSQLite {
		dialect = database.DialectSQLite3
	}

	provider, err := goose.NewProvider(dialect, d.DB, migrationFS)
	if err != nil {
		return fmt.Errorf("db: goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("db: apply migrations: %w", err)
	}
	return nil
}
