// Package spreadsheet reads schedule rows from xlsx workbooks and csv files.
package spreadsheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
)

var (
	ErrMissingHeader     = errors.New("missing header")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

const ctxCheckEvery = 500

type Options struct {
	Path string
	// Sheet names the workbook sheet to read. Empty selects the first sheet.
	Sheet         string
	Columns       importer.Columns
	IncludeOnline bool
	Decoding      importer.DecodingOptions
}

type Driver struct {
	*importer.Base

	opts        Options
	loaded      bool
	initialized bool
}

func New(opts Options) *Driver {
	if opts.Columns == nil {
		opts.Columns = importer.DefaultColumns()
	}
	return &Driver{
		Base: importer.NewBase(importer.ParseCombinedLocation),
		opts: opts,
	}
}

func (d *Driver) Source() entity.SourceKind {
	return entity.SourceSpreadsheet
}

func (d *Driver) LoadRawData(ctx context.Context) error {
	records, lines, workbook, err := d.readRecords(ctx)
	if err != nil {
		return err
	}
	rows, err := toRows(records, lines, d.opts.Columns, workbook)
	if err != nil {
		return fmt.Errorf("%s: %w", d.opts.Path, err)
	}
	if !d.opts.IncludeOnline {
		if rows, err = importer.DropOnline(rows, importer.ParseCombinedLocation); err != nil {
			return fmt.Errorf("%s: %w", d.opts.Path, err)
		}
	}
	d.SetRows(rows)
	d.loaded = true
	return nil
}

// Init loads the file on first use and rewinds the cursor.
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

// readRecords returns the file's records with the 1-based line each one starts on.
func (d *Driver) readRecords(ctx context.Context) ([][]string, []int, bool, error) {
	switch ext := strings.ToLower(filepath.Ext(d.opts.Path)); ext {
	case ".xlsx", ".xlsm", ".xltx":
		records, err := readWorkbook(d.opts.Path, d.opts.Sheet)
		lines := make([]int, len(records))
		for i := range lines {
			lines[i] = i + 1
		}
		return records, lines, true, err
	case ".csv":
		records, lines, err := readCSV(ctx, d.opts.Path, d.opts.Decoding)
		return records, lines, false, err
	default:
		return nil, nil, false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook %s: sheet %q not found", path, sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(ctx context.Context, path string, opts importer.DecodingOptions) ([][]string, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(importer.NewDecodingReader(f, opts))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false

	var (
		records [][]string
		lines   []int
	)
	for {
		if len(records)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		rec, err := r.Read()
		if err == io.EOF {
			return records, lines, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
}

func readHeader(records [][]string) ([]string, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}
	h := records[0]
	for i := range h {
		h[i] = strings.TrimSpace(h[i])
		if !utf8.ValidString(h[i]) {
			return nil, fmt.Errorf("invalid header encoding")
		}
	}
	if importer.BlankRecord(h) {
		return nil, ErrMissingHeader
	}
	return h, nil
}

// toRows maps records below the header to rows, skipping blank records.
// Workbook date cells stored as serial numbers become time.Time values.
func toRows(records [][]string, lines []int, cols importer.Columns, workbook bool) ([]importer.Row, error) {
	header, err := readHeader(records)
	if err != nil {
		return nil, err
	}
	idx := cols.Index(header)
	required := append([]importer.Field{importer.FieldLocation}, importer.RequiredFields...)
	if err := cols.RequireFields(idx, required); err != nil {
		return nil, err
	}

	rows := make([]importer.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if importer.BlankRecord(rec) {
			continue
		}
		row := importer.RowFromRecord(idx, rec)
		if i+1 < len(lines) {
			row[importer.FieldLine] = lines[i+1]
		}
		if workbook {
			convertSerialDates(row)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func convertSerialDates(row importer.Row) {
	for _, f := range importer.DateFields {
		s, ok := row[f].(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		if _, err := importer.ParseDate(s); err == nil {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || serial <= 0 {
			continue
		}
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			row[f] = t
		}
	}
}
