package entity

import (
	"time"

	"github.com/google/uuid"
)

// UpdateLog records which source produced an import run.
type UpdateLog struct {
	id        uuid.UUID
	source    SourceKind
	createdAt time.Time
}

func NewUpdateLog(source SourceKind) *UpdateLog {
	return &UpdateLog{
		id:        uuid.New(),
		source:    source,
		createdAt: time.Now().UTC(),
	}
}

func HydrateUpdateLog(id uuid.UUID, source SourceKind, createdAt time.Time) *UpdateLog {
	return &UpdateLog{
		id:        id,
		source:    source,
		createdAt: createdAt.UTC(),
	}
}

func (l *UpdateLog) ID() uuid.UUID        { return l.id }
func (l *UpdateLog) Kind() Kind           { return KindUpdateLog }
func (l *UpdateLog) Source() SourceKind   { return l.source }
func (l *UpdateLog) CreatedAt() time.Time { return l.createdAt }
func (l *UpdateLog) entity()              {}
