package entity

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

type Subject struct {
	id      uuid.UUID
	name    string
	title   string
	courses []*Course
}

func NewSubject(name, title string) *Subject {
	return &Subject{
		id:    uuid.New(),
		name:  strings.TrimSpace(name),
		title: strings.TrimSpace(title),
	}
}

func (s *Subject) ID() uuid.UUID       { return s.id }
func (s *Subject) Kind() Kind          { return KindSubject }
func (s *Subject) Name() string        { return s.name }
func (s *Subject) Title() string       { return s.title }
func (s *Subject) Courses() []*Course  { return slices.Clone(s.courses) }
func (s *Subject) AddCourse(c *Course) { s.courses = append(s.courses, c) }
func (s *Subject) entity()             {}

type Course struct {
	id       uuid.UUID
	subject  *Subject
	number   string
	title    string
	sections []*Section
}

func NewCourse(subject *Subject, number, title string) *Course {
	return &Course{
		id:      uuid.New(),
		subject: subject,
		number:  strings.TrimSpace(number),
		title:   strings.TrimSpace(title),
	}
}

func (c *Course) ID() uuid.UUID         { return c.id }
func (c *Course) Kind() Kind            { return KindCourse }
func (c *Course) Subject() *Subject     { return c.subject }
func (c *Course) Number() string        { return c.number }
func (c *Course) Title() string         { return c.title }
func (c *Course) Sections() []*Section  { return slices.Clone(c.sections) }
func (c *Course) AddSection(s *Section) { c.sections = append(c.sections, s) }
func (c *Course) entity()               {}
