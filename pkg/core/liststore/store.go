// Package liststore holds the in-memory ordered entry list for one editing
// session and the reorder engine that recomputes positions after a move.
package liststore

import (
	"sort"
	"sync"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
)

// Store is the authoritative in-memory sequence of entries for one owner
// while edits are in flight. One session owns one store; mutations are
// serialized so callers never observe a partially updated sequence.
type Store struct {
	mu      sync.Mutex
	ownerID string
	entries []domain.Entry
}

func New(ownerID string) *Store {
	return &Store{ownerID: ownerID}
}

func (s *Store) OwnerID() string { return s.ownerID }

// Replace swaps in a freshly loaded sequence, assumed ordered by position.
func (s *Store) Replace(entries []domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries[:0:0], entries...)
}

// Entries returns a copy of the current sequence in render order.
func (s *Store) Entries() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Entry(nil), s.entries...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get returns the entry with the given id, if present.
func (s *Store) Get(id string) (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Entry{}, false
}

// Append adds an entry at the end of the sequence. The caller assigns
// Position; new entries use Position == Len().
func (s *Store) Append(entry domain.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// AppendIfAbsent appends only when no entry with the same id exists.
// Used for inbound inserted events, which may be delivered more than once.
func (s *Store) AppendIfAbsent(entry domain.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == entry.ID {
			return false
		}
	}
	s.entries = append(s.entries, entry)
	return true
}

// UpdateField applies a partial update to the entry with the given id.
// No-op if the id is absent.
func (s *Store) UpdateField(id string, patch domain.EntryPatch) (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			patch.Apply(&s.entries[i])
			return s.entries[i], true
		}
	}
	return domain.Entry{}, false
}

// ReplaceEntry replaces the matching entry's fields wholesale with the
// incoming entry. Used for inbound updated events, which may carry a new
// position after a reorder in another session, so the sequence is re-sorted
// to keep render order tracking positions.
func (s *Store) ReplaceEntry(entry domain.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			sort.SliceStable(s.entries, func(a, b int) bool {
				return s.entries[a].Position < s.entries[b].Position
			})
			return true
		}
	}
	return false
}

// Remove deletes the entry with the given id from the sequence. Remaining
// positions are not renumbered; the next reorder closes any gap.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Reorder moves the element at from to to and renumbers every position.
// It returns the full renumbered sequence; an out-of-range index is a
// terminal no-op reported by ok == false. Reorder(i, i) is a valid no-op
// move that still recomputes all positions.
func (s *Store) Reorder(from, to int) (entries []domain.Entry, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from < 0 || from >= len(s.entries) || to < 0 || to >= len(s.entries) {
		return nil, false
	}
	s.entries = Move(s.entries, from, to)
	Renumber(s.entries)
	return append([]domain.Entry(nil), s.entries...), true
}

// Move splices the element at from out of the sequence and inserts it at
// to: removing first shifts later indices down by one before insertion.
func Move(entries []domain.Entry, from, to int) []domain.Entry {
	moved := entries[from]
	entries = append(entries[:from], entries[from+1:]...)
	entries = append(entries, domain.Entry{})
	copy(entries[to+1:], entries[to:])
	entries[to] = moved
	return entries
}

// Renumber assigns position = index for the i-th element. Every position
// is re-derived from the visible order, never patched as a delta, so the
// contiguous-positions invariant holds even if prior state had gaps.
func Renumber(entries []domain.Entry) {
	for i := range entries {
		entries[i].Position = i
	}
}
