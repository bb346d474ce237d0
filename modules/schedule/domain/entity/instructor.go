package entity

import (
	"strings"

	"github.com/google/uuid"
)

type Instructor struct {
	id         uuid.UUID
	identifier string
	name       string
	email      string
}

func NewInstructor(identifier, name, email string) *Instructor {
	return &Instructor{
		id:         uuid.New(),
		identifier: strings.TrimSpace(identifier),
		name:       strings.TrimSpace(name),
		email:      strings.ToLower(strings.TrimSpace(email)),
	}
}

func (i *Instructor) ID() uuid.UUID      { return i.id }
func (i *Instructor) Kind() Kind         { return KindInstructor }
func (i *Instructor) Identifier() string { return i.identifier }
func (i *Instructor) Name() string       { return i.name }
func (i *Instructor) Email() string      { return i.email }
func (i *Instructor) entity()            {}
