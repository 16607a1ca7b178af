package ports

import (
	"context"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
)

// EntryRepository defines storage operations for link/header entries
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry *domain.Entry) error
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	ListEntries(ctx context.Context, ownerID string) ([]domain.Entry, error) // ascending by position
	UpsertEntries(ctx context.Context, entries []domain.Entry) error         // insert-or-update by id
	DeleteEntry(ctx context.Context, id string) error
	CountEntries(ctx context.Context, ownerID string) (int, error)
}

// ProfileRepository defines storage operations for users and social links
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile, passwordHash string) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	GetCredentials(ctx context.Context, email string) (userID string, passwordHash string, err error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	SetTemplate(ctx context.Context, userID, template string) error

	ListSocialLinks(ctx context.Context, userID string) ([]domain.SocialLink, error)
	CreateSocialLink(ctx context.Context, link *domain.SocialLink) error
	UpdateSocialLink(ctx context.Context, link *domain.SocialLink) error
	DeleteSocialLink(ctx context.Context, id string) error
}

// MarketRepository defines storage operations for the marketplace and feedback
type MarketRepository interface {
	ListListings(ctx context.Context) ([]domain.Listing, error)
	CreateFeedback(ctx context.Context, feedback *domain.Feedback) error
}

// Subscription is a live change-notification stream with an explicit
// lifetime; Unsubscribe releases it.
type Subscription interface {
	Unsubscribe()
}

// Publisher fans a change event out to every subscriber of the event's owner.
type Publisher interface {
	Publish(event domain.ChangeEvent)
}

// RemoteStore is the client surface an editing session syncs against:
// durable rows keyed by id, filterable by owner, plus change notifications.
type RemoteStore interface {
	Load(ctx context.Context, ownerID string) ([]domain.Entry, error)
	UpsertMany(ctx context.Context, entries []domain.Entry) error
	DeleteOne(ctx context.Context, id string) error
	Subscribe(ownerID string, handler func(domain.ChangeEvent)) (Subscription, error)
}

// EntryService defines the business logic for the ordered entry list
type EntryService interface {
	List(ctx context.Context, ownerID string) ([]domain.Entry, error)
	Create(ctx context.Context, ownerID, label string, isLink bool) (*domain.Entry, error)
	Update(ctx context.Context, ownerID, id string, patch domain.EntryPatch) (*domain.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
	Reorder(ctx context.Context, ownerID string, from, to int) ([]domain.Entry, error)
}

// ProfileService defines the business logic for profiles and social links
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID, fullname, bio, avatarURL string) (*domain.Profile, error)
	SetTemplate(ctx context.Context, userID, template string) error
	PublicPage(ctx context.Context, username string) (*domain.PublicPage, error)

	ListSocialLinks(ctx context.Context, userID string) ([]domain.SocialLink, error)
	AddSocialLink(ctx context.Context, userID, platform, url string) (*domain.SocialLink, error)
	UpdateSocialLink(ctx context.Context, userID, id, platform, url string) (*domain.SocialLink, error)
	RemoveSocialLink(ctx context.Context, userID, id string) error
}

// MarketService defines the business logic for the marketplace and feedback
type MarketService interface {
	Listings(ctx context.Context) ([]domain.Listing, error)
	SubmitFeedback(ctx context.Context, userID, content string) (*domain.Feedback, error)
}

// AccountService defines signup and credential checks
type AccountService interface {
	Signup(ctx context.Context, email, password, username, fullname, category, subcategory string) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (userID string, err error)
	EnsureGoogleUser(ctx context.Context, email, fullname string) (userID string, err error)
}
