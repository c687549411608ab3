package ladder

import (
	"sync"
	"time"
)

// Store holds the latest computed ladder for readers such as HTTP handlers.
type Store struct {
	mu       sync.RWMutex
	result   Result
	computed time.Time
	version  int
}

func NewStore() *Store {
	return &Store{}
}

// Get returns the latest result, when it was computed, and whether any
// result has been stored yet.
func (s *Store) Get() (Result, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.computed, s.version > 0
}

// Update replaces the stored result and returns the new version.
func (s *Store) Update(r Result, at time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = r
	s.computed = at
	s.version++
	return s.version
}

// Version counts updates since creation.
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
