// Package remote adapts the entry repository and the notification hub to
// the RemoteStore surface an editing session syncs against.
package remote

import (
	"context"

	"github.com/napatsiri/go-biolink/pkg/adapters/notify"
	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type Store struct {
	repo ports.EntryRepository
	hub  *notify.Hub
}

func NewStore(repo ports.EntryRepository, hub *notify.Hub) *Store {
	return &Store{repo: repo, hub: hub}
}

func (s *Store) Load(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	entries, err := s.repo.ListEntries(ctx, ownerID)
	if err != nil {
		return nil, &domain.FetchError{Err: err}
	}
	return entries, nil
}

// UpsertMany writes the batch and fans out one event per row: inserted for
// rows that did not exist, updated otherwise.
func (s *Store) UpsertMany(ctx context.Context, entries []domain.Entry) error {
	kinds := make([]domain.ChangeKind, len(entries))
	for i := range entries {
		existing, err := s.repo.GetEntry(ctx, entries[i].ID)
		if err != nil {
			return &domain.WriteError{Op: "upsert", Err: err}
		}
		if existing == nil {
			kinds[i] = domain.ChangeInserted
		} else {
			kinds[i] = domain.ChangeUpdated
		}
	}

	if err := s.repo.UpsertEntries(ctx, entries); err != nil {
		return &domain.WriteError{Op: "upsert", Err: err}
	}

	for i := range entries {
		s.hub.Publish(domain.ChangeEvent{
			Kind:     kinds[i],
			Resource: domain.ResourceEntry,
			OwnerID:  entries[i].OwnerID,
			ID:       entries[i].ID,
			Entry:    &entries[i],
		})
	}
	return nil
}

func (s *Store) DeleteOne(ctx context.Context, id string) error {
	existing, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return &domain.WriteError{Op: "delete", Err: err}
	}
	if existing == nil {
		return nil
	}

	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return &domain.WriteError{Op: "delete", Err: err}
	}

	s.hub.Publish(domain.ChangeEvent{
		Kind:     domain.ChangeDeleted,
		Resource: domain.ResourceEntry,
		OwnerID:  existing.OwnerID,
		ID:       id,
	})
	return nil
}

func (s *Store) Subscribe(ownerID string, handler func(domain.ChangeEvent)) (ports.Subscription, error) {
	return s.hub.Subscribe(ownerID, handler), nil
}

var _ ports.RemoteStore = (*Store)(nil)
