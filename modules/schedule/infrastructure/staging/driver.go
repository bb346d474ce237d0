// Package staging reads schedule rows from a staging table and loads
// spreadsheets into one.
package staging

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
)

var ErrInvalidIdentifier = errors.New("invalid sql identifier")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func validIdentifier(kind, name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, kind, name)
	}
	return nil
}

type Options struct {
	Table         string
	OrderBy       string
	Columns       importer.Columns
	IncludeOnline bool
}

type Driver struct {
	*importer.Base

	db          *sqlx.DB
	opts        Options
	loaded      bool
	initialized bool
}

func New(db *sqlx.DB, opts Options) (*Driver, error) {
	if err := validIdentifier("table", opts.Table); err != nil {
		return nil, err
	}
	if err := validIdentifier("order by column", opts.OrderBy); err != nil {
		return nil, err
	}
	if opts.Columns == nil {
		opts.Columns = importer.DefaultColumns()
	}
	return &Driver{
		Base: importer.NewBase(importer.ParseSplitLocation),
		db:   db,
		opts: opts,
	}, nil
}

func (d *Driver) Source() entity.SourceKind {
	return entity.SourceDatabase
}

func (d *Driver) LoadRawData(ctx context.Context) error {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", d.opts.Table, d.opts.OrderBy)
	rs, err := d.db.QueryxContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query staging table %s: %w", d.opts.Table, err)
	}
	defer rs.Close()

	header, err := rs.Columns()
	if err != nil {
		return err
	}
	idx := d.opts.Columns.Index(header)
	required := append([]importer.Field{importer.FieldBuilding, importer.FieldRoom}, importer.RequiredFields...)
	if err := d.opts.Columns.RequireFields(idx, required); err != nil {
		return fmt.Errorf("staging table %s: %w", d.opts.Table, err)
	}

	var rows []importer.Row
	for rs.Next() {
		rec := make(map[string]any, len(header))
		if err := rs.MapScan(rec); err != nil {
			return fmt.Errorf("scan staging row %d: %w", len(rows)+1, err)
		}
		row := make(importer.Row, len(idx)+1)
		// Line is the ordinal in the ordered result, before online rows are dropped.
		row[importer.FieldLine] = len(rows) + 1
		for f, i := range idx {
			v := rec[header[i]]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[f] = v
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return fmt.Errorf("read staging table %s: %w", d.opts.Table, err)
	}

	if !d.opts.IncludeOnline {
		if rows, err = importer.DropOnline(rows, importer.ParseSplitLocation); err != nil {
			return err
		}
	}
	d.SetRows(rows)
	d.loaded = true
	return nil
}

func (d *Driver) Init(ctx context.Context) error {
	if d.initialized {
		return nil
	}
	if !d.loaded {
		if err := d.LoadRawData(ctx); err != nil {
			return err
		}
	}
	d.First()
	d.initialized = true
	return nil
}
