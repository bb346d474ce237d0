package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	gerrors "github.com/go-faster/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Dialect maps a database/sql driver name to its goose dialect.
func Dialect(driverName string) (string, error) {
	switch driverName {
	case "pgx", "postgres":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driverName)
	}
}

// Migrate applies every pending schedule migration. A nil logger silences goose.
func Migrate(ctx context.Context, db *sql.DB, dialect string, logger goose.Logger) error {
	if logger == nil {
		logger = goose.NopLogger()
	}
	goose.SetLogger(logger)
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return gerrors.Wrap(err, "set migration dialect")
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return gerrors.Wrap(err, "apply migrations")
	}
	return nil
}
