package spreadsheet_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/spreadsheet"
	"github.com/iota-uz/schedule-import/modules/schedule/services"
)

var header = []string{
	"campus", "location", "instructor_id", "term_year", "semester", "block", "block_start", "block_end",
	"subject", "course_number", "course_title", "crn", "days", "start_time",
}

func csvLine(cells ...string) string {
	return strings.Join(cells, ",")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sampleCSV() string {
	lines := []string{
		"\ufeff" + csvLine(header...),
		csvLine("MAIN", "MAIN_A-101", "113344", "2024", "fall", "A", "2024-08-26", "2024-12-13", "MATH", "1914", "Calculus I", "10023", "MWF", "09:30 AM"),
		csvLine("", "", "", "", "", "", "", "", "", "", "", "", "", ""),
		csvLine("MAIN", "MAIN_A-101", "113344", "2024", "fall", "A", "2024-08-26", "2024-12-13", "MATH", "1914", "Calculus I", "10024", "TR", "11:00 AM"),
		csvLine("MAIN", "ONLINE", "200001", "2024", "fall", "A", "2024-08-26", "2024-12-13", "CS", "1301", "Programming", "10099", "", ""),
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestDriver_LoadCSV(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "schedule.csv", sampleCSV())
	d := spreadsheet.New(spreadsheet.Options{Path: path, Decoding: importer.DefaultDecodingOptions()})
	require.NoError(t, d.LoadRawData(context.Background()))

	assert.Equal(t, entity.SourceSpreadsheet, d.Source())
	assert.Equal(t, 2, d.Count(), "blank and online rows are dropped")

	row, ok := d.First()
	require.True(t, ok)
	assert.Equal(t, "MAIN", row[importer.FieldCampus])
	assert.Equal(t, "09:30 AM", d.Field(importer.FieldStartTime))

	loc, err := d.ParseBuilding()
	require.NoError(t, err)
	assert.Equal(t, importer.Location{Building: "MAIN_A", Room: "101"}, loc)
}

func TestDriver_IncludeOnline(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "schedule.csv", sampleCSV())
	d := spreadsheet.New(spreadsheet.Options{Path: path, IncludeOnline: true, Decoding: importer.DefaultDecodingOptions()})
	require.NoError(t, d.LoadRawData(context.Background()))
	require.Equal(t, 3, d.Count())

	d.First()
	d.Next()
	d.Next()
	loc, err := d.ParseBuilding()
	require.NoError(t, err)
	assert.True(t, loc.Online)
}

func TestDriver_CustomColumns(t *testing.T) {
	t.Parallel()

	content := strings.Replace(sampleCSV(), "crn", "Course Reference", 1)
	path := writeFile(t, "schedule.csv", content)

	_, err := loadWith(path, nil)
	require.ErrorContains(t, err, "missing required header column: crn")

	cols := importer.DefaultColumns()
	cols[importer.FieldCRN] = "course reference"
	d, err := loadWith(path, cols)
	require.NoError(t, err)
	d.First()
	assert.Equal(t, "10023", d.Field(importer.FieldCRN))
}

func loadWith(path string, cols importer.Columns) (*spreadsheet.Driver, error) {
	d := spreadsheet.New(spreadsheet.Options{Path: path, Columns: cols, Decoding: importer.DefaultDecodingOptions()})
	return d, d.LoadRawData(context.Background())
}

func TestDriver_Errors(t *testing.T) {
	t.Parallel()

	_, err := loadWith(writeFile(t, "empty.csv", ""), nil)
	require.ErrorIs(t, err, spreadsheet.ErrMissingHeader)

	_, err = loadWith(writeFile(t, "schedule.ods", "x"), nil)
	require.ErrorIs(t, err, spreadsheet.ErrUnsupportedFormat)

	_, err = loadWith(filepath.Join(t.TempDir(), "missing.csv"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDriver_InitLoadsLazilyOnce(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "schedule.csv", sampleCSV())
	d := spreadsheet.New(spreadsheet.Options{Path: path, Decoding: importer.DefaultDecodingOptions()})

	require.NoError(t, d.Init(context.Background()))
	assert.Equal(t, 2, d.Count())
	d.Next()
	require.NoError(t, d.Init(context.Background()))
	assert.Equal(t, 1, d.Position(), "a second Init does not rewind")
}

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestDriver_LoadWorkbook(t *testing.T) {
	t.Parallel()

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	path := writeWorkbook(t, [][]any{
		hdr,
		{"MAIN", "MAIN_A 101", 113344, 2024, "SPRING", "A", 45530, "2024-12-13", "MATH", 1914, "Calculus I", 10023, "MWF", "09:30 AM"},
		{},
		{"MAIN", "MAIN_B-7", 113344, 2024, "SPRING", "A", 45530, "2024-12-13", "MATH", 2413, "Calculus II", 10030, "TR", "01:00 PM"},
	})

	d := spreadsheet.New(spreadsheet.Options{Path: path})
	require.NoError(t, d.LoadRawData(context.Background()))
	require.Equal(t, 2, d.Count())

	first, _ := d.First()
	assert.Equal(t, 2, first.Line())
	start, ok := d.Field(importer.FieldBlockStart).(time.Time)
	require.True(t, ok, "serial date converted")
	assert.True(t, start.Equal(time.Date(2024, 8, 26, 0, 0, 0, 0, time.UTC)))

	block, err := d.CreateTerm()
	require.NoError(t, err)
	assert.Equal(t, "2024-SPRING_b-A", entity.MustKey(block))

	second, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, 4, second.Line(), "the empty sheet row still counts")

	_, err = loadWith(path, nil)
	require.NoError(t, err)

	bad := spreadsheet.New(spreadsheet.Options{Path: path, Sheet: "Missing"})
	require.ErrorContains(t, bad.LoadRawData(context.Background()), `sheet "Missing" not found`)
}

func TestDriver_ImportsThroughGraphBuilder(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "schedule.csv", sampleCSV())
	d := spreadsheet.New(spreadsheet.Options{Path: path, Decoding: importer.DefaultDecodingOptions()})
	store := persistence.NewMemoryStore()

	res, err := services.Import(context.Background(), d, store, services.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Summary.Sections)
	assert.Equal(t, 1, res.Summary.Created[entity.KindRoom])
	assert.Equal(t, 1, res.Summary.Reused[entity.KindRoom])
	assert.Len(t, store.Entities(entity.KindSection), 2)
}

func TestDriver_RowErrorsReportSourceLine(t *testing.T) {
	t.Parallel()

	lines := []string{
		"\ufeff" + csvLine(header...),
		csvLine("MAIN", "MAIN_A-101", "113344", "2024", "fall", "A", "2024-08-26", "2024-12-13", "MATH", "1914", "Calculus I", "10023", "MWF", "09:30 AM"),
		"",
		csvLine("", "", "", "", "", "", "", "", "", "", "", "", "", ""),
		csvLine("MAIN", "ONLINE", "200001", "2024", "fall", "A", "2024-08-26", "2024-12-13", "CS", "1301", "Programming", "10099", "", ""),
		csvLine("MAIN", "MAIN_A-101", "113344", "2024", "fall", "A", "someday", "2024-12-13", "MATH", "1914", "Calculus I", "10024", "TR", "11:00 AM"),
	}
	path := writeFile(t, "schedule.csv", strings.Join(lines, "\r\n")+"\r\n")
	d := spreadsheet.New(spreadsheet.Options{Path: path, Decoding: importer.DefaultDecodingOptions()})

	_, err := services.Import(context.Background(), d, persistence.NewMemoryStore(), services.ImportOptions{})
	require.ErrorIs(t, err, importer.ErrMalformedRow)

	var rowErr *importer.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Position)
	assert.Equal(t, 6, rowErr.Line)
	assert.Contains(t, err.Error(), "line 6: block_start")
}
