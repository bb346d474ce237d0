package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SectionAttrs are the per-row attributes of a class section.
type SectionAttrs struct {
	CRN           string
	Number        string
	Days          string
	StartTime     string
	EndTime       string
	StartDate     time.Time
	EndDate       time.Time
	Status        string
	MaxEnrollment int
	Enrolled      int
}

// SectionRefs are the resolved graph nodes a section points at.
type SectionRefs struct {
	Campus     *Campus
	Building   *Building
	Room       *Room
	Block      *TermBlock
	Instructor *Instructor
	Subject    *Subject
	Course     *Course
}

type Section struct {
	id    uuid.UUID
	attrs SectionAttrs
	refs  SectionRefs
}

func NewSection(course *Course, attrs SectionAttrs) *Section {
	attrs.CRN = strings.TrimSpace(attrs.CRN)
	attrs.Number = strings.TrimSpace(attrs.Number)
	return &Section{
		id:    uuid.New(),
		attrs: attrs,
		refs:  SectionRefs{Course: course},
	}
}

// Bind points the section at its resolved references.
func (s *Section) Bind(refs SectionRefs) {
	s.refs = refs
}

func (s *Section) ID() uuid.UUID           { return s.id }
func (s *Section) Kind() Kind              { return KindSection }
func (s *Section) CRN() string             { return s.attrs.CRN }
func (s *Section) Attrs() SectionAttrs     { return s.attrs }
func (s *Section) Refs() SectionRefs       { return s.refs }
func (s *Section) Campus() *Campus         { return s.refs.Campus }
func (s *Section) Building() *Building     { return s.refs.Building }
func (s *Section) Room() *Room             { return s.refs.Room }
func (s *Section) Block() *TermBlock       { return s.refs.Block }
func (s *Section) Instructor() *Instructor { return s.refs.Instructor }
func (s *Section) Subject() *Subject       { return s.refs.Subject }
func (s *Section) Course() *Course         { return s.refs.Course }
func (s *Section) entity()                 {}
