package main

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func openDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, withCode(exitDB, fmt.Errorf("open %s database: %w", driver, err))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, withCode(exitDB, fmt.Errorf("connect %s database: %w", driver, err))
	}
	return db, nil
}
