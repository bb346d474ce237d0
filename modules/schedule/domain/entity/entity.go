// Package entity holds the normalized scheduling graph built by an import run.
package entity

import (
	"github.com/google/uuid"
)

type Kind int

const (
	KindCampus Kind = iota + 1
	KindBuilding
	KindRoom
	KindInstructor
	KindTerm
	KindTermBlock
	KindSubject
	KindCourse
	KindSection
	KindUpdateLog
)

// Kinds lists the keyable kinds in dependency order: a parent always precedes its children.
var Kinds = []Kind{
	KindCampus,
	KindBuilding,
	KindRoom,
	KindInstructor,
	KindTerm,
	KindTermBlock,
	KindSubject,
	KindCourse,
	KindSection,
}

func (k Kind) String() string {
	switch k {
	case KindCampus:
		return "campus"
	case KindBuilding:
		return "building"
	case KindRoom:
		return "room"
	case KindInstructor:
		return "instructor"
	case KindTerm:
		return "term"
	case KindTermBlock:
		return "term_block"
	case KindSubject:
		return "subject"
	case KindCourse:
		return "course"
	case KindSection:
		return "section"
	case KindUpdateLog:
		return "update_log"
	default:
		return "unknown"
	}
}

// Entity is implemented only by the types of this package.
type Entity interface {
	ID() uuid.UUID
	Kind() Kind
	entity()
}

// SourceKind tags which driver variant produced a run's data.
type SourceKind string

const (
	SourceSpreadsheet SourceKind = "spreadsheet"
	SourceDatabase    SourceKind = "database"
)

func (s SourceKind) Valid() bool {
	return s == SourceSpreadsheet || s == SourceDatabase
}
