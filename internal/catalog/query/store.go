package query

import (
	"sync"
	"time"
)

// State is the lifecycle position of a cache entry. Transitions:
// idle -> fetching -> {fresh, error, notfound}; fresh entries move back to
// fetching when a revalidation starts; notfound is terminal.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateFresh
	StateError
	StateNotFound
)

type entry struct {
	state     State
	value     any
	err       error
	fetchedAt time.Time
	ttl       time.Duration
}

// Store is the in-process keyed cache behind the query client. It has an
// explicit lifecycle (populate on fetch, invalidate on purge) rather than
// being ambient global state; the client receives it by injection.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	// now is swappable so tests can control staleness.
	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Snapshot is a read-only view of one entry.
type Snapshot struct {
	State State
	Value any
	Err   error
	Stale bool
}

// Lookup returns the entry snapshot for the key. ok is false when the key was
// never populated (or was invalidated).
func (s *Store) Lookup(key string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return Snapshot{State: StateIdle}, false
	}

	snap := Snapshot{State: e.state, Value: e.value, Err: e.err}

	if e.state == StateFresh && e.ttl > 0 && s.now().Sub(e.fetchedAt) > e.ttl {
		snap.Stale = true
	}

	return snap, true
}

// SetFresh records a successful fetch.
func (s *Store) SetFresh(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &entry{
		state:     StateFresh,
		value:     value,
		fetchedAt: s.now(),
		ttl:       ttl,
	}
}

// SetError records an exhausted fetch. The next Lookup reports the error
// state; a subsequent fetch attempt (the caller's manual retry) re-arms it.
func (s *Store) SetError(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &entry{state: StateError, err: err, fetchedAt: s.now()}
}

// SetNotFound marks a detail key as terminally absent. No TTL: not-found
// never expires back into fetching on its own.
func (s *Store) SetNotFound(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &entry{state: StateNotFound, fetchedAt: s.now()}
}

// Invalidate drops one key.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Purge drops every entry and returns how many were evicted.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = make(map[string]*entry)

	return n
}

// Len reports the current entry count, for metrics and the purge endpoint.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
