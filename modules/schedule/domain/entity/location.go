package entity

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

type Campus struct {
	id        uuid.UUID
	shortName string
	name      string
	buildings []*Building
}

func NewCampus(shortName, name string) *Campus {
	return &Campus{
		id:        uuid.New(),
		shortName: strings.TrimSpace(shortName),
		name:      strings.TrimSpace(name),
	}
}

func (c *Campus) ID() uuid.UUID           { return c.id }
func (c *Campus) Kind() Kind              { return KindCampus }
func (c *Campus) ShortName() string       { return c.shortName }
func (c *Campus) Name() string            { return c.name }
func (c *Campus) Buildings() []*Building  { return slices.Clone(c.buildings) }
func (c *Campus) AddBuilding(b *Building) { c.buildings = append(c.buildings, b) }
func (c *Campus) entity()                 {}

type Building struct {
	id        uuid.UUID
	campus    *Campus
	shortName string
	name      string
	rooms     []*Room
}

func NewBuilding(campus *Campus, shortName, name string) *Building {
	return &Building{
		id:        uuid.New(),
		campus:    campus,
		shortName: strings.TrimSpace(shortName),
		name:      strings.TrimSpace(name),
	}
}

func (b *Building) ID() uuid.UUID     { return b.id }
func (b *Building) Kind() Kind        { return KindBuilding }
func (b *Building) Campus() *Campus   { return b.campus }
func (b *Building) ShortName() string { return b.shortName }
func (b *Building) Name() string      { return b.name }
func (b *Building) Rooms() []*Room    { return slices.Clone(b.rooms) }
func (b *Building) AddRoom(r *Room)   { b.rooms = append(b.rooms, r) }
func (b *Building) entity()           {}

type Room struct {
	id       uuid.UUID
	building *Building
	number   string
	capacity int
}

func NewRoom(building *Building, number string, capacity int) *Room {
	return &Room{
		id:       uuid.New(),
		building: building,
		number:   strings.TrimSpace(number),
		capacity: capacity,
	}
}

func (r *Room) ID() uuid.UUID       { return r.id }
func (r *Room) Kind() Kind          { return KindRoom }
func (r *Room) Building() *Building { return r.building }
func (r *Room) Number() string      { return r.number }
func (r *Room) Capacity() int       { return r.capacity }
func (r *Room) entity()             {}
