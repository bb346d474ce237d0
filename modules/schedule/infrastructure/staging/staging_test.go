package staging_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/staging"
)

func openSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "staging.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stagedRow(crn, location string) importer.Row {
	return importer.Row{
		importer.FieldCampus:       "MAIN",
		importer.FieldLocation:     location,
		importer.FieldInstructorID: "113344",
		importer.FieldTermYear:     "2024",
		importer.FieldSemester:     "FALL",
		importer.FieldBlock:        "A",
		importer.FieldBlockStart:   time.Date(2024, 8, 26, 0, 0, 0, 0, time.UTC),
		importer.FieldBlockEnd:     "2024-12-13",
		importer.FieldSubject:      "MATH",
		importer.FieldCourseNumber: "1914",
		importer.FieldCRN:          crn,
	}
}

func TestWriterAndDriver_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSQLite(t)
	rows := []importer.Row{
		stagedRow("10024", "MAIN_A-101"),
		stagedRow("10023", "MAIN_B 7"),
		stagedRow("10099", "ONLINE"),
	}
	require.NoError(t, staging.SplitLocations(rows))
	assert.Equal(t, "MAIN_B", rows[1][importer.FieldBuilding])

	w, err := staging.NewWriter(db, "schedule_staging")
	require.NoError(t, err)
	n, err := w.Write(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = w.Write(ctx, rows[:2])
	require.NoError(t, err, "writing again replaces the table contents")
	assert.Equal(t, 2, n)

	d, err := staging.New(db, staging.Options{Table: "schedule_staging", OrderBy: "crn", IncludeOnline: true})
	require.NoError(t, err)
	require.NoError(t, d.Init(ctx))
	assert.Equal(t, entity.SourceDatabase, d.Source())
	require.Equal(t, 2, d.Count())

	assert.Equal(t, "10023", d.Field(importer.FieldCRN), "rows follow the order by column")
	loc, err := d.ParseBuilding()
	require.NoError(t, err)
	assert.Equal(t, importer.Location{Building: "MAIN_B", Room: "7"}, loc)

	room, err := d.CreateRoom(nil)
	require.NoError(t, err)
	assert.Equal(t, "c-MAIN_b-MAIN_B_r-7", entity.MustKey(room))

	block, err := d.CreateTerm()
	require.NoError(t, err)
	assert.True(t, block.StartDate().Equal(time.Date(2024, 8, 26, 0, 0, 0, 0, time.UTC)))
}

func TestDriver_DropsOnlineRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSQLite(t)
	rows := []importer.Row{stagedRow("1", "MAIN_A-101"), stagedRow("2", "WEB")}
	require.NoError(t, staging.SplitLocations(rows))
	w, err := staging.NewWriter(db, "staged")
	require.NoError(t, err)
	_, err = w.Write(ctx, rows)
	require.NoError(t, err)

	d, err := staging.New(db, staging.Options{Table: "staged", OrderBy: "crn"})
	require.NoError(t, err)
	require.NoError(t, d.LoadRawData(ctx))
	assert.Equal(t, 1, d.Count())
}

func TestDriver_MapScanConvertsBytes(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")

	cols := []string{"campus", "building", "room", "instructor_id", "term_year", "semester", "block", "block_start", "block_end", "subject", "course_number", "crn"}
	mock.ExpectQuery("SELECT \\* FROM staged ORDER BY crn").WillReturnRows(
		sqlmock.NewRows(cols).AddRow(
			[]byte("MAIN"), []byte("MAIN_A"), []byte("101"), []byte("113344"), int64(2024), []byte("FALL"), []byte("A"),
			time.Date(2024, 8, 26, 0, 0, 0, 0, time.UTC), []byte("2024-12-13"), []byte("MATH"), []byte("1914"), []byte("10023"),
		),
	)

	d, err := staging.New(db, staging.Options{Table: "staged", OrderBy: "crn"})
	require.NoError(t, err)
	require.NoError(t, d.LoadRawData(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())

	d.First()
	assert.Equal(t, "MAIN", d.Field(importer.FieldCampus))
	assert.IsType(t, time.Time{}, d.Field(importer.FieldBlockStart))

	term, err := d.CreateTerm()
	require.NoError(t, err)
	assert.Equal(t, 2024, term.Term().Year())
}

func TestDriver_MissingColumns(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"campus", "crn"}))

	d, err := staging.New(sqlx.NewDb(mockDB, "sqlmock"), staging.Options{Table: "staged", OrderBy: "crn"})
	require.NoError(t, err)
	require.ErrorContains(t, d.LoadRawData(context.Background()), "missing required header column: building")
}

func TestIdentifiersValidated(t *testing.T) {
	t.Parallel()

	_, err := staging.New(nil, staging.Options{Table: "staged; DROP TABLE x", OrderBy: "crn"})
	require.ErrorIs(t, err, staging.ErrInvalidIdentifier)

	_, err = staging.New(nil, staging.Options{Table: "public.staged", OrderBy: "crn desc"})
	require.ErrorIs(t, err, staging.ErrInvalidIdentifier)

	_, err = staging.NewWriter(nil, "1table")
	require.ErrorIs(t, err, staging.ErrInvalidIdentifier)
}

func TestDriver_RowErrorsReportResultOrdinal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openSQLite(t)
	bad := stagedRow("3", "MAIN_A-102")
	bad[importer.FieldBlockStart] = "someday"
	rows := []importer.Row{stagedRow("1", "MAIN_A-101"), stagedRow("2", "WEB"), bad}
	require.NoError(t, staging.SplitLocations(rows))
	w, err := staging.NewWriter(db, "staged")
	require.NoError(t, err)
	_, err = w.Write(ctx, rows)
	require.NoError(t, err)

	d, err := staging.New(db, staging.Options{Table: "staged", OrderBy: "crn"})
	require.NoError(t, err)
	require.NoError(t, d.Init(ctx))
	require.Equal(t, 2, d.Count())

	row, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, 3, row.Line(), "dropped online rows still count")

	_, err = d.CreateTerm()
	require.ErrorIs(t, err, importer.ErrMalformedRow)
	var rowErr *importer.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Position)
	assert.Equal(t, 3, rowErr.Line)
	assert.Contains(t, err.Error(), "line 3: block_start")
}
