package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/cache"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// TagService manages an owner's tags. Tag names are not deduplicated; two
// tags named "fantasy" are two tags.
type TagService struct {
	store  store.Store
	tags   *cache.Collection[*domain.Tag]
	logger *slog.Logger
}

// NewTagService creates a tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		tags:   cache.NewCollection(func(t *domain.Tag) string { return t.ID }),
		logger: logger,
	}
}

// CreateTagRequest contains the fields for a new tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// Create adds a tag.
func (s *TagService) Create(ctx context.Context, ownerID string, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:        tagID,
		OwnerID:   ownerID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.tags.Upsert(ownerID, tag)

	return tag, nil
}

// Get fetches one tag.
func (s *TagService) Get(ctx context.Context, ownerID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, ownerID, tagID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, err
	}
	return tag, nil
}

// List returns all of the owner's tags.
func (s *TagService) List(ctx context.Context, ownerID string) ([]*domain.Tag, error) {
	return s.tags.Get(ownerID, func() ([]*domain.Tag, error) {
		return s.store.ListTags(ctx, ownerID)
	})
}

// Delete removes a tag. Book links cascade away with it.
func (s *TagService) Delete(ctx context.Context, ownerID, tagID string) error {
	if err := s.store.DeleteTag(ctx, ownerID, tagID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.tags.Remove(ownerID, tagID)
	s.logger.Info("tag deleted", "owner_id", ownerID, "tag_id", tagID)

	return nil
}
