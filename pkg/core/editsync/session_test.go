package editsync

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type fakeSub struct {
	unsubscribed bool
}

func (s *fakeSub) Unsubscribe() { s.unsubscribed = true }

// fakeRemote is an in-memory remote store. upsertStarted/upsertRelease, when
// set, let a test observe local state while a write is still outstanding.
type fakeRemote struct {
	mu            sync.Mutex
	rows          map[string]domain.Entry
	loadErr       error
	upsertErr     error
	deleteErr     error
	upsertStarted chan struct{}
	upsertRelease chan struct{}
	handler       func(domain.ChangeEvent)
	sub           *fakeSub
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: make(map[string]domain.Entry)}
}

func (r *fakeRemote) Load(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Entry
	for _, e := range r.rows {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeRemote) UpsertMany(ctx context.Context, entries []domain.Entry) error {
	if r.upsertStarted != nil {
		r.upsertStarted <- struct{}{}
		<-r.upsertRelease
	}
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.rows[e.ID] = e
	}
	return nil
}

func (r *fakeRemote) DeleteOne(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *fakeRemote) Subscribe(ownerID string, handler func(domain.ChangeEvent)) (ports.Subscription, error) {
	r.handler = handler
	r.sub = &fakeSub{}
	return r.sub, nil
}

func seed(r *fakeRemote, ids ...string) {
	for i, id := range ids {
		r.rows[id] = domain.Entry{ID: id, OwnerID: "owner-1", IsLink: true, Position: i}
	}
}

func newTestSession(t *testing.T, remote *fakeRemote) *Session {
	t.Helper()
	s, err := NewSession("owner-1", remote, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionRequiresOwner(t *testing.T) {
	_, err := NewSession("", newFakeRemote(), nil)
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Errorf("expected ErrAuthRequired, got %v", err)
	}
}

func TestLoadFailureKeepsStateEmpty(t *testing.T) {
	remote := newFakeRemote()
	remote.loadErr = errors.New("connection refused")
	s := newTestSession(t, remote)

	err := s.Load(context.Background())
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if len(s.Entries()) != 0 {
		t.Error("store should remain empty after failed load")
	}
	if s.State() != Uninitialized {
		t.Errorf("state: got %v want %v", s.State(), Uninitialized)
	}

	// Retry after the remote recovers.
	remote.loadErr = nil
	seed(remote, "a", "b")
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("retry load: %v", err)
	}
	if len(s.Entries()) != 2 || s.State() != Synced {
		t.Errorf("after retry: %d entries, state %v", len(s.Entries()), s.State())
	}
}

func TestReorderIsLocalFirst(t *testing.T) {
	remote := newFakeRemote()
	seed(remote, "a", "b", "c")
	remote.upsertStarted = make(chan struct{})
	remote.upsertRelease = make(chan struct{})

	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Reorder(context.Background(), 0, 2) }()

	// The remote write is outstanding; the local list must already show
	// the new order.
	<-remote.upsertStarted
	entries := s.Entries()
	if entries[0].ID != "b" || entries[1].ID != "c" || entries[2].ID != "a" {
		t.Errorf("local order not updated before write resolved: %v", entries)
	}

	close(remote.upsertRelease)
	if err := <-done; err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if s.State() != Synced {
		t.Errorf("state after successful write: %v", s.State())
	}
}

func TestWriteFailureKeepsOptimisticState(t *testing.T) {
	remote := newFakeRemote()
	seed(remote, "a", "b")
	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	remote.upsertErr = errors.New("disk full")
	err := s.Reorder(context.Background(), 0, 1)
	var we *domain.WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if s.State() != SyncedWithError {
		t.Errorf("state: got %v want %v", s.State(), SyncedWithError)
	}
	// No rollback: the local view keeps the new order.
	entries := s.Entries()
	if entries[0].ID != "b" || entries[1].ID != "a" {
		t.Errorf("optimistic state rolled back: %v", entries)
	}
	if s.Err() == nil {
		t.Error("session should retain the write error")
	}
}

func TestInboundInsertIsIdempotent(t *testing.T) {
	remote := newFakeRemote()
	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Subscribe(); err != nil {
		t.Fatal(err)
	}

	incoming := domain.Entry{ID: "x", OwnerID: "owner-1", IsLink: true, Position: 0}
	ev := domain.ChangeEvent{Kind: domain.ChangeInserted, Resource: domain.ResourceEntry, OwnerID: "owner-1", ID: "x", Entry: &incoming}
	remote.handler(ev)
	remote.handler(ev)

	if n := len(s.Entries()); n != 1 {
		t.Errorf("duplicate delivery: got %d copies, want 1", n)
	}
}

func TestInboundSocialLinkEventIgnored(t *testing.T) {
	remote := newFakeRemote()
	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Subscribe(); err != nil {
		t.Fatal(err)
	}

	link := domain.SocialLink{ID: "s1", UserID: "owner-1", Platform: "github", URL: "https://github.com/owner"}
	remote.handler(domain.ChangeEvent{Kind: domain.ChangeInserted, Resource: domain.ResourceSocialLink, OwnerID: "owner-1", ID: "s1", SocialLink: &link})

	if len(s.Entries()) != 0 {
		t.Error("social-link event must not touch the entry list")
	}
}

func TestInboundUpdateDoesNotClobberPendingAppend(t *testing.T) {
	remote := newFakeRemote()
	seed(remote, "y")
	remote.upsertStarted = make(chan struct{})
	remote.upsertRelease = make(chan struct{})

	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Subscribe(); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Append(context.Background(), "", true)
		done <- err
	}()
	<-remote.upsertStarted

	// While the append's upsert is outstanding, another session updates y.
	updated := domain.Entry{ID: "y", OwnerID: "owner-1", Label: "renamed", IsLink: true, Position: 0, UpdatedAt: time.Now()}
	remote.handler(domain.ChangeEvent{Kind: domain.ChangeUpdated, Resource: domain.ResourceEntry, OwnerID: "owner-1", ID: "y", Entry: &updated})

	close(remote.upsertRelease)
	if err := <-done; err != nil {
		t.Fatalf("append: %v", err)
	}

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected both x and y present, got %v", entries)
	}
	var sawUpdated, sawAppended bool
	for _, e := range entries {
		if e.ID == "y" && e.Label == "renamed" {
			sawUpdated = true
		}
		if e.ID != "y" {
			sawAppended = true
		}
	}
	if !sawUpdated || !sawAppended {
		t.Errorf("lost update: entries %v", entries)
	}
}

func TestRemoveDoesNotRenumberAndReorderCloses(t *testing.T) {
	remote := newFakeRemote()
	seed(remote, "a", "b", "c")
	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}
	if _, ok := remote.rows["b"]; ok {
		t.Error("delete not persisted")
	}

	if err := s.Reorder(context.Background(), 1, 0); err != nil {
		t.Fatal(err)
	}
	entries := s.Entries()
	if entries[0].ID != "c" || entries[1].ID != "a" {
		t.Fatalf("unexpected order: %v", entries)
	}
	for i, e := range entries {
		if e.Position != i {
			t.Errorf("gap not closed at %d: position %d", i, e.Position)
		}
	}
}

func TestUpdateFieldAbsentIDIsNoOp(t *testing.T) {
	remote := newFakeRemote()
	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	label := "ghost"
	if err := s.UpdateField(context.Background(), "missing", domain.EntryPatch{Label: &label}); err != nil {
		t.Errorf("no-op update returned error: %v", err)
	}
	if len(remote.rows) != 0 {
		t.Error("no-op update should not write")
	}
}

func TestCloseStopsEventProcessing(t *testing.T) {
	remote := newFakeRemote()
	s := newTestSession(t, remote)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Subscribe(); err != nil {
		t.Fatal(err)
	}

	s.Close()
	if !remote.sub.unsubscribed {
		t.Error("close should release the subscription")
	}
	if s.State() != Closed {
		t.Errorf("state: got %v want %v", s.State(), Closed)
	}

	late := domain.Entry{ID: "late", OwnerID: "owner-1", Position: 0}
	remote.handler(domain.ChangeEvent{Kind: domain.ChangeInserted, Resource: domain.ResourceEntry, OwnerID: "owner-1", ID: "late", Entry: &late})
	if len(s.Entries()) != 0 {
		t.Error("closed session processed an event")
	}
}
