package entity

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Term struct {
	id       uuid.UUID
	year     int
	semester string
	blocks   []*TermBlock
}

func NewTerm(year int, semester string) *Term {
	return &Term{
		id:       uuid.New(),
		year:     year,
		semester: strings.TrimSpace(semester),
	}
}

func (t *Term) ID() uuid.UUID         { return t.id }
func (t *Term) Kind() Kind            { return KindTerm }
func (t *Term) Year() int             { return t.year }
func (t *Term) Semester() string      { return t.semester }
func (t *Term) Blocks() []*TermBlock  { return slices.Clone(t.blocks) }
func (t *Term) AddBlock(b *TermBlock) { t.blocks = append(t.blocks, b) }
func (t *Term) entity()               {}

type TermBlock struct {
	id        uuid.UUID
	term      *Term
	shortName string
	name      string
	startDate time.Time
	endDate   time.Time
}

func NewTermBlock(term *Term, shortName, name string, startDate, endDate time.Time) *TermBlock {
	return &TermBlock{
		id:        uuid.New(),
		term:      term,
		shortName: strings.TrimSpace(shortName),
		name:      strings.TrimSpace(name),
		startDate: startDate,
		endDate:   endDate,
	}
}

// WithTerm returns a copy of b, with the same id, attached to t.
func (b *TermBlock) WithTerm(t *Term) *TermBlock {
	c := *b
	c.term = t
	return &c
}

func (b *TermBlock) ID() uuid.UUID        { return b.id }
func (b *TermBlock) Kind() Kind           { return KindTermBlock }
func (b *TermBlock) Term() *Term          { return b.term }
func (b *TermBlock) ShortName() string    { return b.shortName }
func (b *TermBlock) Name() string         { return b.name }
func (b *TermBlock) StartDate() time.Time { return b.startDate }
func (b *TermBlock) EndDate() time.Time   { return b.endDate }
func (b *TermBlock) entity()              {}
