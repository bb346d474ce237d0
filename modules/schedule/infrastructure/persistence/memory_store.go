package persistence

import (
	"context"
	"sync"

	gerrors "github.com/go-faster/errors"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
)

// MemoryStore keeps persisted entities in memory. It backs dry runs.
type MemoryStore struct {
	mu        sync.Mutex
	pending   []entity.Entity
	committed map[entity.Kind][]entity.Entity
	flushes   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{committed: make(map[entity.Kind][]entity.Entity)}
}

func (s *MemoryStore) Persist(_ context.Context, e entity.Entity) error {
	if e == nil {
		return gerrors.New("persist nil entity")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, e)
	return nil
}

func (s *MemoryStore) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.pending {
		s.committed[e.Kind()] = append(s.committed[e.Kind()], e)
	}
	s.pending = nil
	s.flushes++
	return nil
}

func (s *MemoryStore) UpdateLogs(_ context.Context) ([]*entity.UpdateLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.UpdateLog, 0, len(s.committed[entity.KindUpdateLog]))
	for _, e := range s.committed[entity.KindUpdateLog] {
		out = append(out, e.(*entity.UpdateLog))
	}
	return out, nil
}

// Entities returns the flushed entities of kind in persist order.
func (s *MemoryStore) Entities(kind entity.Kind) []entity.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Entity(nil), s.committed[kind]...)
}

func (s *MemoryStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *MemoryStore) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}
