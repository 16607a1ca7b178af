package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

var errInvalidCredentials = errors.New("invalid email or password")

type AccountService struct {
	repo ports.ProfileRepository
}

func NewAccountService(repo ports.ProfileRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) Signup(ctx context.Context, email, password, username, fullname, category, subcategory string) (*domain.Profile, error) {
	if email == "" || password == "" || username == "" {
		return nil, errors.New("email, password and username are required")
	}

	existing, _ := s.repo.GetProfileByUsername(ctx, username)
	if existing != nil {
		return nil, errors.New("username already exists")
	}
	if _, _, err := s.repo.GetCredentials(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:      domain.NewID(),
		Username:    username,
		Email:       email,
		Fullname:    fullname,
		Category:    category,
		Subcategory: subcategory,
		Template:    domain.DefaultTemplate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repo.CreateProfile(ctx, profile, string(hash)); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	userID, hash, err := s.repo.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", errInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", errInvalidCredentials
	}
	return userID, nil
}

// EnsureGoogleUser resolves an OAuth login to a local user id, creating a
// profile on first login. The generated username is the email local part;
// the user can change it afterwards.
func (s *AccountService) EnsureGoogleUser(ctx context.Context, email, fullname string) (string, error) {
	userID, _, err := s.repo.GetCredentials(ctx, email)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	if existing, _ := s.repo.GetProfileByUsername(ctx, username); existing != nil {
		username = username + "-" + strings.ToLower(domain.NewID()[:6])
	}

	profile := &domain.Profile{
		UserID:    domain.NewID(),
		Username:  username,
		Email:     email,
		Fullname:  fullname,
		Template:  domain.DefaultTemplate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.repo.CreateProfile(ctx, profile, ""); err != nil {
		return "", err
	}
	return profile.UserID, nil
}

var _ ports.AccountService = (*AccountService)(nil)
