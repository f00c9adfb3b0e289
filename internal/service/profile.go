package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// ProfileService manages user profiles. Profiles are upserted on first
// edit; reading one that was never edited returns an empty default.
type ProfileService struct {
	store  store.Store
	logger *slog.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(store store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger}
}

// UpdateProfileRequest contains profile fields.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Bio      string `json:"bio" validate:"omitempty,max=500"`
}

// Get returns the user's profile, or an empty default if never edited.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

// Update upserts the user's profile.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		UserID:    userID,
		Username:  req.Username,
		Bio:       req.Bio,
		UpdatedAt: time.Now(),
	}

	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return profile, nil
}
