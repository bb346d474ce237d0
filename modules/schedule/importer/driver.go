// Package importer turns source rows into unresolved scheduling entities.
//
// A Driver owns a cursor over the rows of one import run and builds fresh
// entity instances from the current row. Drivers never deduplicate: they know
// nothing about other rows, and resolution is left to the caller.
package importer

import (
	"context"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
)

type Driver interface {
	Source() entity.SourceKind
	Count() int
	// LoadRawData populates the row sequence.
	LoadRawData(ctx context.Context) error
	// Init runs one-time setup after rows are loaded. Calling it again is a no-op.
	Init(ctx context.Context) error

	First() (Row, bool)
	Next() (Row, bool)
	Previous() (Row, bool)
	Current() (Row, bool)
	Field(f Field) any
	Position() int

	CreateCampus() (*entity.Campus, error)
	CreateBuilding(campus *entity.Campus) (*entity.Building, error)
	CreateRoom(building *entity.Building) (*entity.Room, error)
	CreateInstructor() (*entity.Instructor, error)
	// CreateTerm returns a term block with a fresh Term attached.
	CreateTerm() (*entity.TermBlock, error)
	CreateSubject() (*entity.Subject, error)
	CreateCourse(subject *entity.Subject) (*entity.Course, error)
	CreateSection(course *entity.Course) (*entity.Section, error)

	// ParseBuilding returns the location of the current row, memoized until
	// the cursor moves.
	ParseBuilding() (Location, error)
}
