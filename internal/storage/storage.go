// Package storage holds the process-wide configuration snapshot. The
// snapshot itself is immutable; replacing configuration means loading a
// new AppConfig off the critical path and swapping the pointer, so
// concurrent readers never need to coordinate beyond the store's lock.
package storage

import (
	"sync"
	"time"

	"github.com/mshevtsov/dapconfig/internal/config"
)

// Store provides access to the active configuration snapshot.
type Store interface {
	Current() *config.AppConfig
	Replace(cfg *config.AppConfig)
	UpdatedAt() time.Time
}

// MemoryStore keeps the snapshot in-memory and guards access with a RWMutex.
type MemoryStore struct {
	mu        sync.RWMutex
	cfg       *config.AppConfig
	updatedAt time.Time
	clock     func() time.Time
}

// Option configures MemoryStore behaviour.
type Option func(*MemoryStore)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStore) {
		s.clock = clock
	}
}

// NewMemoryStore initialises the store with the provided snapshot, or the
// compiled-in defaults when nil.
func NewMemoryStore(cfg *config.AppConfig, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	s.cfg = cfg
	s.updatedAt = s.clock()
	return s
}

// Current returns the active snapshot. Callers must treat it as read-only.
func (s *MemoryStore) Current() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}

// Replace swaps in a new snapshot. Readers holding the previous snapshot
// keep a consistent view; nothing is mutated in place.
func (s *MemoryStore) Replace(cfg *config.AppConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.updatedAt = s.clock()
	s.mu.Unlock()
}

// UpdatedAt reports when the snapshot was last replaced.
func (s *MemoryStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.updatedAt
}
