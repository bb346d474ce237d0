package staging

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iota-uz/schedule-import/modules/schedule/importer"
)

// Writer replaces the contents of a staging table with spreadsheet rows.
// Every logical field becomes a TEXT column named after it.
type Writer struct {
	db    *sqlx.DB
	table string
}

func NewWriter(db *sqlx.DB, table string) (*Writer, error) {
	if err := validIdentifier("table", table); err != nil {
		return nil, err
	}
	return &Writer{db: db, table: table}, nil
}

func (w *Writer) Write(ctx context.Context, rows []importer.Row) (n int, err error) {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, w.createTableQuery()); err != nil {
		return 0, fmt.Errorf("create staging table %s: %w", w.table, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+w.table); err != nil {
		return 0, fmt.Errorf("clear staging table %s: %w", w.table, err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(w.insertQuery()))
	if err != nil {
		return 0, fmt.Errorf("prepare staging insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(importer.AllFields))
	for i, row := range rows {
		for j, f := range importer.AllFields {
			s := importer.CellString(row[f])
			args[j] = sql.NullString{String: s, Valid: s != ""}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert staging row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (w *Writer) createTableQuery() string {
	cols := make([]string, len(importer.AllFields))
	for i, f := range importer.AllFields {
		cols[i] = string(f) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", w.table, strings.Join(cols, ", "))
}

func (w *Writer) insertQuery() string {
	cols := make([]string, len(importer.AllFields))
	for i, f := range importer.AllFields {
		cols[i] = string(f)
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", w.table, strings.Join(cols, ", "), marks)
}

// SplitLocations fills the building and room fields of each row from its
// combined location, keeping values already present.
func SplitLocations(rows []importer.Row) error {
	for _, row := range rows {
		loc, err := importer.ParseCombinedLocation(row)
		if err != nil {
			return err
		}
		if importer.IsBlank(row[importer.FieldBuilding]) {
			row[importer.FieldBuilding] = loc.Building
		}
		if importer.IsBlank(row[importer.FieldRoom]) {
			row[importer.FieldRoom] = loc.Room
		}
	}
	return nil
}
