package protocol

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrDuplicateRequestID indicates an identifier is already pending.
var ErrDuplicateRequestID = stderrors.New("request id already pending")

// NewRequestID creates a unique request ID using ULID.
// IDs generated by one process are strictly increasing.
func NewRequestID() string {
	return ulid.Make().String()
}

// Table tracks outstanding requests by identifier.
//
// Claim removes an entry and returns it in one step, so whoever claims an
// entry owns its settlement and no other goroutine can observe it half-settled.
type Table[T any] struct {
	mu      sync.Mutex
	entries map[string]T
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{entries: make(map[string]T, 10)}
}

// Put records a pending entry. An identifier may only be pending once.
func (t *Table[T]) Put(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[id]; exists {
		return ErrDuplicateRequestID
	}

	t.entries[id] = v

	return nil
}

// Claim removes and returns the entry for id.
func (t *Table[T]) Claim(id string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}

	return v, ok
}

// Has reports whether id is pending.
func (t *Table[T]) Has(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.entries[id]

	return ok
}

// Len returns the number of pending entries.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// IDs returns the pending identifiers in no particular order.
func (t *Table[T]) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}

	return ids
}

// Drain removes and returns every pending entry.
func (t *Table[T]) Drain() map[string]T {
	t.mu.Lock()
	defer t.mu.Unlock()

	drained := t.entries
	t.entries = make(map[string]T, 10)

	return drained
}

// Tombstones remembers recently settled identifiers for a fixed TTL so that a
// duplicate delivery can be told apart from a reply that was never requested.
type Tombstones struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	expires map[string]time.Time
}

// NewTombstones creates a tombstone set with the given TTL.
func NewTombstones(ttl time.Duration) *Tombstones {
	return &Tombstones{
		ttl:     ttl,
		now:     time.Now,
		expires: make(map[string]time.Time, 4),
	}
}

// Mark records id as settled and drops expired entries.
func (s *Tombstones) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for k, exp := range s.expires {
		if now.After(exp) {
			delete(s.expires, k)
		}
	}

	s.expires[id] = now.Add(s.ttl)
}

// Seen reports whether id was settled within the TTL.
func (s *Tombstones) Seen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expires[id]
	if !ok {
		return false
	}

	if s.now().After(exp) {
		delete(s.expires, id)

		return false
	}

	return true
}
