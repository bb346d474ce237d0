package services

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/iota-uz/schedule-import/modules/schedule/domain/entity"
)

var (
	ErrKeyConflict = errors.New("cache key conflict")
	ErrNilEntity   = errors.New("factory returned nil entity")
)

// Factory produces the instance to cache for a key on a miss.
type Factory func() (entity.Entity, error)

type resolver interface {
	Resolve(key string, factory Factory) (entity.Entity, bool, error)
}

// Cache maps composite keys to the one instance resolved for them during an
// import run. Entries are never replaced or evicted.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entity.Entity
	inflight singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]entity.Entity)}
}

// Resolve returns the instance cached under key, or caches the factory's
// result on a miss. isNew reports whether this call's factory ran and its
// result was stored. Concurrent misses on one key share a single factory call.
// The factory runs without the lock held so it may resolve other keys.
func (c *Cache) Resolve(key string, factory Factory) (entity.Entity, bool, error) {
	if e, ok := c.Lookup(key); ok {
		return e, false, nil
	}
	var created bool
	v, err, _ := c.inflight.Do(key, func() (any, error) {
		if e, ok := c.Lookup(key); ok {
			return e, nil
		}
		e, err := factory()
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilEntity, key)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.entries[key]; ok {
			return existing, nil
		}
		c.entries[key] = e
		created = true
		return e, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(entity.Entity), created, nil
}

func (c *Cache) Lookup(key string) (entity.Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Scope opens a staging layer over the cache for one row.
func (c *Cache) Scope() *Scope {
	return &Scope{cache: c, staged: make(map[string]entity.Entity)}
}

func (c *Cache) insertAll(keys []string, staged map[string]entity.Entity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if _, ok := c.entries[key]; ok {
			return fmt.Errorf("%w: %s resolved concurrently", ErrKeyConflict, key)
		}
	}
	for _, key := range keys {
		c.entries[key] = staged[key]
	}
	return nil
}

// Scope stages the misses and parent-child links of one row. Nothing reaches
// the cache or any child collection until Commit; Discard drops it all.
type Scope struct {
	cache  *Cache
	staged map[string]entity.Entity
	order  []string
	links  []func()
}

func (s *Scope) Resolve(key string, factory Factory) (entity.Entity, bool, error) {
	if e, ok := s.cache.Lookup(key); ok {
		return e, false, nil
	}
	if e, ok := s.staged[key]; ok {
		return e, false, nil
	}
	e, err := factory()
	if err != nil {
		return nil, false, err
	}
	if e == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrNilEntity, key)
	}
	s.staged[key] = e
	s.order = append(s.order, key)
	return e, true, nil
}

// Link records a child-collection append to apply on Commit.
func (s *Scope) Link(fn func()) {
	s.links = append(s.links, fn)
}

func (s *Scope) Commit() error {
	if err := s.cache.insertAll(s.order, s.staged); err != nil {
		s.Discard()
		return err
	}
	for _, fn := range s.links {
		fn()
	}
	s.reset()
	return nil
}

func (s *Scope) Discard() {
	s.reset()
}

func (s *Scope) reset() {
	s.staged = make(map[string]entity.Entity)
	s.order = nil
	s.links = nil
}

// resolveAs resolves candidate under its derived key and checks the cached
// instance has the candidate's type.
func resolveAs[T entity.Entity](r resolver, candidate T) (T, string, bool, error) {
	var zero T
	key, err := entity.Key(candidate)
	if err != nil {
		return zero, "", false, err
	}
	e, isNew, err := r.Resolve(key, func() (entity.Entity, error) { return candidate, nil })
	if err != nil {
		return zero, key, false, err
	}
	typed, ok := e.(T)
	if !ok {
		return zero, key, false, fmt.Errorf("%w: %s holds a %s, not a %s", ErrKeyConflict, key, e.Kind(), candidate.Kind())
	}
	return typed, key, isNew, nil
}
