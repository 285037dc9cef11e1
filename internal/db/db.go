package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("db: unknown driver")

// DB bundles the connection pool with a statement builder that already
// uses the driver's placeholder format.
type DB struct {
	*sql.DB
	squirrel.StatementBuilderType

	Driver string
}

// Open connects and pings the database. driver is DriverPostgres or DriverSQLite.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	var format squirrel.PlaceholderFormat
	switch driver {
	case DriverPostgres:
		format = squirrel.Dollar
	case DriverSQLite:
		format = squirrel.Question
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return &DB{
		DB:                   sqlDB,
		StatementBuilderType: squirrel.StatementBuilder.PlaceholderFormat(format).RunWith(sqlDB),
		Driver:               driver,
	}, nil
}

// Ping is used by the health endpoint.
func (d *DB) Ping(ctx context.Context) error {
	return d.PingContext(ctx)
}
