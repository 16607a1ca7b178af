package services

import (
	"context"
	"errors"
	"time"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type ProfileService struct {
	repo    ports.ProfileRepository
	entries ports.EntryRepository
	pub     ports.Publisher
}

func NewProfileService(repo ports.ProfileRepository, entries ports.EntryRepository, pub ports.Publisher) *ProfileService {
	return &ProfileService{repo: repo, entries: entries, pub: pub}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID, fullname, bio, avatarURL string) (*domain.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	// Update fields if provided (naive partial update logic)
	if fullname != "" {
		profile.Fullname = fullname
	}
	if bio != "" {
		profile.Bio = bio
	}
	if avatarURL != "" {
		profile.AvatarURL = avatarURL
	}
	profile.UpdatedAt = time.Now()

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) SetTemplate(ctx context.Context, userID, template string) error {
	if !domain.ValidTemplate(template) {
		return errors.New("unknown template")
	}
	return s.repo.SetTemplate(ctx, userID, template)
}

// PublicPage assembles the visitor-facing page for a username: the profile,
// its active entries in render order, and its social icons.
func (s *ProfileService) PublicPage(ctx context.Context, username string) (*domain.PublicPage, error) {
	profile, err := s.repo.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}

	all, err := s.entries.ListEntries(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Entry, 0, len(all))
	for _, e := range all {
		if e.Active {
			visible = append(visible, e)
		}
	}

	socials, err := s.repo.ListSocialLinks(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	template := profile.Template
	if template == "" {
		template = domain.DefaultTemplate
	}

	return &domain.PublicPage{
		Profile:     *profile,
		Entries:     visible,
		SocialLinks: socials,
		Template:    template,
	}, nil
}

func (s *ProfileService) ListSocialLinks(ctx context.Context, userID string) ([]domain.SocialLink, error) {
	return s.repo.ListSocialLinks(ctx, userID)
}

func (s *ProfileService) AddSocialLink(ctx context.Context, userID, platform, url string) (*domain.SocialLink, error) {
	if platform == "" || url == "" {
		return nil, errors.New("platform and url are required")
	}

	link := &domain.SocialLink{
		ID:        domain.NewID(),
		UserID:    userID,
		Platform:  platform,
		URL:       url,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateSocialLink(ctx, link); err != nil {
		return nil, err
	}

	s.publishSocialLink(domain.ChangeInserted, link)
	return link, nil
}

func (s *ProfileService) UpdateSocialLink(ctx context.Context, userID, id, platform, url string) (*domain.SocialLink, error) {
	existing, err := s.ownedSocialLink(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if platform != "" {
		existing.Platform = platform
	}
	if url != "" {
		existing.URL = url
	}
	if err := s.repo.UpdateSocialLink(ctx, existing); err != nil {
		return nil, err
	}

	s.publishSocialLink(domain.ChangeUpdated, existing)
	return existing, nil
}

func (s *ProfileService) RemoveSocialLink(ctx context.Context, userID, id string) error {
	link, err := s.ownedSocialLink(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSocialLink(ctx, id); err != nil {
		return err
	}

	s.pub.Publish(domain.ChangeEvent{
		Kind:     domain.ChangeDeleted,
		Resource: domain.ResourceSocialLink,
		OwnerID:  link.UserID,
		ID:       id,
	})
	return nil
}

// publishSocialLink fans a social-link change out on the owner's channel.
func (s *ProfileService) publishSocialLink(kind domain.ChangeKind, link *domain.SocialLink) {
	s.pub.Publish(domain.ChangeEvent{
		Kind:       kind,
		Resource:   domain.ResourceSocialLink,
		OwnerID:    link.UserID,
		ID:         link.ID,
		SocialLink: link,
	})
}

func (s *ProfileService) ownedSocialLink(ctx context.Context, userID, id string) (*domain.SocialLink, error) {
	links, err := s.repo.ListSocialLinks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range links {
		if links[i].ID == id {
			return &links[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

var _ ports.ProfileService = (*ProfileService)(nil)
