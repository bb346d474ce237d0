package services_test

import (
	"context"
	"maps"

	"github.com/google/uuid"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
	"github.com/iota-uz/schedule-import/modules/schedule/importer"
)

// sliceDriver serves fixed rows through the shared Base constructors.
type sliceDriver struct {
	*importer.Base
	rows  []importer.Row
	loads int
	inits int
}

func newSliceDriver(rows ...importer.Row) *sliceDriver {
	return &sliceDriver{Base: importer.NewBase(importer.ParseCombinedLocation), rows: rows}
}

func (d *sliceDriver) Source() entity.SourceKind { return entity.SourceSpreadsheet }

func (d *sliceDriver) LoadRawData(context.Context) error {
	d.loads++
	d.SetRows(d.rows)
	return nil
}

func (d *sliceDriver) Init(context.Context) error {
	d.inits++
	return nil
}

func baseRow() importer.Row {
	return importer.Row{
		importer.FieldCampus:        "MAIN",
		importer.FieldCampusName:    "Main Campus",
		importer.FieldLocation:      "MAIN_A-101",
		importer.FieldRoomCapacity:  "35",
		importer.FieldInstructorID:  "113344",
		importer.FieldTermYear:      "2024",
		importer.FieldSemester:      "FALL",
		importer.FieldBlock:         "A",
		importer.FieldBlockStart:    "2024-08-26",
		importer.FieldBlockEnd:      "2024-12-13",
		importer.FieldSubject:       "MATH",
		importer.FieldCourseNumber:  "1914",
		importer.FieldCourseTitle:   "Calculus I",
		importer.FieldCRN:           "10023",
		importer.FieldMaxEnrollment: "40",
	}
}

func rowWith(overrides map[importer.Field]any) importer.Row {
	r := baseRow()
	maps.Copy(r, overrides)
	return r
}

func uuidFor(n byte) uuid.UUID {
	var id uuid.UUID
	id[15] = n
	return id
}
