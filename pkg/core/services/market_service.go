package services

import (
	"context"
	"errors"
	"time"

	"github.com/napatsiri/go-biolink/pkg/core/domain"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

type MarketService struct {
	repo ports.MarketRepository
}

func NewMarketService(repo ports.MarketRepository) *MarketService {
	return &MarketService{repo: repo}
}

func (s *MarketService) Listings(ctx context.Context) ([]domain.Listing, error) {
	return s.repo.ListListings(ctx)
}

func (s *MarketService) SubmitFeedback(ctx context.Context, userID, content string) (*domain.Feedback, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	if content == "" {
		return nil, errors.New("content is required")
	}

	feedback := &domain.Feedback{
		ID:        domain.NewID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

var _ ports.MarketService = (*MarketService)(nil)
