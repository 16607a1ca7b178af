// Package editsync keeps one session's in-memory entry list and the remote
// store eventually consistent: local edits apply optimistically, changed
// entries are persisted as a batched upsert, and inbound change events from
// other sessions merge back in without clobbering in-flight local edits.
package editsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/core/liststore"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

// State is the sync state of one editing session.
type State int

const (
	Uninitialized State = iota
	Synced
	Dirty
	SyncedWithError
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Synced:
		return "synced"
	case Dirty:
		return "dirty"
	case SyncedWithError:
		return "synced-with-error"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Session owns the link list store for one editing session and syncs it
// against the remote store. Failed writes never roll back the optimistic
// local state: the session moves to SyncedWithError, keeps the local view,
// and the caller may retry. Close releases the change subscription.
type Session struct {
	mu      sync.Mutex
	store   *liststore.Store
	remote  ports.RemoteStore
	sub     ports.Subscription
	state   State
	lastErr error
	log     *zap.Logger
	now     func() time.Time
}

func NewSession(ownerID string, remote ports.RemoteStore, logger *zap.Logger) (*Session, error) {
	if ownerID == "" {
		return nil, domain.ErrAuthRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:  liststore.New(ownerID),
		remote: remote,
		state:  Uninitialized,
		log:    logger,
		now:    time.Now,
	}, nil
}

// Load fetches the owner's entries, ordered by position. On failure the
// previous local state is retained and a FetchError is returned so the
// caller can surface a retry.
func (s *Session) Load(ctx context.Context) error {
	entries, err := s.remote.Load(ctx, s.store.OwnerID())
	if err != nil {
		var fe *domain.FetchError
		if !errors.As(err, &fe) {
			err = &domain.FetchError{Err: err}
		}
		return err
	}
	s.store.Replace(entries)
	s.setState(Synced, nil)
	return nil
}

// Subscribe establishes the inbound change stream. It should be called
// around the initial Load and must be released via Close when the editing
// session ends.
func (s *Session) Subscribe() error {
	sub, err := s.remote.Subscribe(s.store.OwnerID(), s.applyEvent)
	if err != nil {
		return &domain.SubscriptionError{Err: err}
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

// Append adds a new entry at the end of the list and persists it. The id
// is assigned locally; the local list reflects the entry before the remote
// write resolves.
func (s *Session) Append(ctx context.Context, label string, isLink bool) (domain.Entry, error) {
	entry := domain.Entry{
		ID:        domain.NewID(),
		OwnerID:   s.store.OwnerID(),
		Label:     label,
		IsLink:    isLink,
		Position:  s.store.Len(),
		UpdatedAt: s.now(),
	}
	s.store.Append(entry)
	return entry, s.persist(ctx, []domain.Entry{entry})
}

// UpdateField applies a partial update to one entry. A missing id is a
// no-op, not an error.
func (s *Session) UpdateField(ctx context.Context, id string, patch domain.EntryPatch) error {
	updated, ok := s.store.UpdateField(id, patch)
	if !ok {
		return nil
	}
	updated.UpdatedAt = s.now()
	s.store.ReplaceEntry(updated)
	return s.persist(ctx, []domain.Entry{updated})
}

// Remove deletes one entry locally and remotely. Remaining positions are
// not renumbered; the next reorder closes the gap.
func (s *Session) Remove(ctx context.Context, id string) error {
	if !s.store.Remove(id) {
		return nil
	}
	s.setState(Dirty, nil)
	if err := s.remote.DeleteOne(ctx, id); err != nil {
		return s.writeFailed("delete", err)
	}
	s.setState(Synced, nil)
	return nil
}

// Reorder moves the entry at from to to, renumbers every position, and
// persists the full sequence as one batch. An invalid destination (for
// example a cancelled drag) is a terminal no-op.
func (s *Session) Reorder(ctx context.Context, from, to int) error {
	entries, ok := s.store.Reorder(from, to)
	if !ok {
		return nil
	}
	stamp := s.now()
	for i := range entries {
		entries[i].UpdatedAt = stamp
	}
	return s.persist(ctx, entries)
}

func (s *Session) persist(ctx context.Context, entries []domain.Entry) error {
	s.setState(Dirty, nil)
	if err := s.remote.UpsertMany(ctx, entries); err != nil {
		return s.writeFailed("upsert", err)
	}
	s.setState(Synced, nil)
	return nil
}

func (s *Session) writeFailed(op string, err error) error {
	var we *domain.WriteError
	if !errors.As(err, &we) {
		err = &domain.WriteError{Op: op, Err: err}
	}
	s.setState(SyncedWithError, err)
	s.log.Warn("remote write failed, keeping local state",
		zap.String("owner_id", s.store.OwnerID()),
		zap.String("op", op),
		zap.Error(err))
	return err
}

// applyEvent merges one inbound change notification. Events apply in
// delivery order; duplicate inserts are ignored and a closed session
// processes nothing. The owner channel also carries social-link events,
// which the entry list does not track.
func (s *Session) applyEvent(ev domain.ChangeEvent) {
	if ev.Resource != domain.ResourceEntry {
		return
	}
	s.mu.Lock()
	closed := s.state == Closed
	s.mu.Unlock()
	if closed {
		return
	}

	switch ev.Kind {
	case domain.ChangeInserted:
		if ev.Entry != nil {
			s.store.AppendIfAbsent(*ev.Entry)
		}
	case domain.ChangeUpdated:
		if ev.Entry != nil {
			s.store.ReplaceEntry(*ev.Entry)
		}
	case domain.ChangeDeleted:
		s.store.Remove(ev.ID)
	}
}

// Entries returns the current local sequence in render order.
func (s *Session) Entries() []domain.Entry {
	return s.store.Entries()
}

// State reports the session's sync state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last write error, if the session is SyncedWithError.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close releases the subscription and stops processing inbound events.
func (s *Session) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.state = Closed
	s.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (s *Session) setState(state State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed {
		return
	}
	s.state = state
	s.lastErr = err
}
