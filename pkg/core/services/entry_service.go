package services

import (
	"context"
	"time"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/core/liststore"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

// EntryService is the server-side authority for one owner's entry list.
// Every write is fanned out to that owner's subscribed sessions through
// the publisher.
type EntryService struct {
	repo ports.EntryRepository
	pub  ports.Publisher
}

func NewEntryService(repo ports.EntryRepository, pub ports.Publisher) *EntryService {
	return &EntryService{repo: repo, pub: pub}
}

func (s *EntryService) List(ctx context.Context, ownerID string) ([]domain.Entry, error) {
	if ownerID == "" {
		return nil, domain.ErrAuthRequired
	}
	return s.repo.ListEntries(ctx, ownerID)
}

func (s *EntryService) Create(ctx context.Context, ownerID, label string, isLink bool) (*domain.Entry, error) {
	if ownerID == "" {
		return nil, domain.ErrAuthRequired
	}

	count, err := s.repo.CountEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:        domain.NewID(),
		OwnerID:   ownerID,
		Label:     label,
		IsLink:    isLink,
		Active:    false,
		Position:  count,
		UpdatedAt: time.Now(),
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.pub.Publish(domain.ChangeEvent{
		Kind:     domain.ChangeInserted,
		Resource: domain.ResourceEntry,
		OwnerID:  ownerID,
		ID:       entry.ID,
		Entry:    entry,
	})
	return entry, nil
}

func (s *EntryService) Update(ctx context.Context, ownerID, id string, patch domain.EntryPatch) (*domain.Entry, error) {
	entry, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}

	patch.Apply(entry)
	entry.UpdatedAt = time.Now()

	if err := s.repo.UpsertEntries(ctx, []domain.Entry{*entry}); err != nil {
		return nil, err
	}

	s.pub.Publish(domain.ChangeEvent{
		Kind:     domain.ChangeUpdated,
		Resource: domain.ResourceEntry,
		OwnerID:  ownerID,
		ID:       entry.ID,
		Entry:    entry,
	})
	return entry, nil
}

// Delete removes one entry. Remaining positions keep their values; the
// next reorder re-derives all of them.
func (s *EntryService) Delete(ctx context.Context, ownerID, id string) error {
	entry, err := s.repo.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil || entry.OwnerID != ownerID {
		return domain.ErrNotFound
	}

	if err := s.repo.DeleteEntry(ctx, id); err != nil {
		return err
	}

	s.pub.Publish(domain.ChangeEvent{
		Kind:     domain.ChangeDeleted,
		Resource: domain.ResourceEntry,
		OwnerID:  ownerID,
		ID:       id,
	})
	return nil
}

// Reorder moves the entry at from to to and rewrites every position from
// the resulting order. Re-deriving the full set keeps positions contiguous
// even when prior state had gaps, without cross-session coordination. An
// out-of-range index leaves the list untouched.
func (s *EntryService) Reorder(ctx context.Context, ownerID string, from, to int) ([]domain.Entry, error) {
	if ownerID == "" {
		return nil, domain.ErrAuthRequired
	}

	entries, err := s.repo.ListEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(entries) || to < 0 || to >= len(entries) {
		return entries, nil
	}

	entries = liststore.Move(entries, from, to)
	liststore.Renumber(entries)
	stamp := time.Now()
	for i := range entries {
		entries[i].UpdatedAt = stamp
	}

	if err := s.repo.UpsertEntries(ctx, entries); err != nil {
		return nil, err
	}

	for i := range entries {
		s.pub.Publish(domain.ChangeEvent{
			Kind:     domain.ChangeUpdated,
			Resource: domain.ResourceEntry,
			OwnerID:  ownerID,
			ID:       entries[i].ID,
			Entry:    &entries[i],
		})
	}
	return entries, nil
}

var _ ports.EntryService = (*EntryService)(nil)
