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

// AuthorService manages the owner's favorite-author list.
type AuthorService struct {
	store   store.Store
	authors *cache.Collection[*domain.FavoriteAuthor]
	logger  *slog.Logger
}

// NewAuthorService creates a favorite-author service.
func NewAuthorService(store store.Store, logger *slog.Logger) *AuthorService {
	return &AuthorService{
		store:   store,
		authors: cache.NewCollection(func(a *domain.FavoriteAuthor) string { return a.ID }),
		logger:  logger,
	}
}

// AddFavoriteAuthorRequest contains the fields for a new favorite author.
type AddFavoriteAuthorRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Add records a favorite author. Duplicates are allowed; the list is the
// owner's to curate.
func (s *AuthorService) Add(ctx context.Context, ownerID string, req AddFavoriteAuthorRequest) (*domain.FavoriteAuthor, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	authorID, err := id.Generate("fav")
	if err != nil {
		return nil, fmt.Errorf("generate author ID: %w", err)
	}

	author := &domain.FavoriteAuthor{
		ID:        authorID,
		OwnerID:   ownerID,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateFavoriteAuthor(ctx, author); err != nil {
		return nil, fmt.Errorf("create favorite author: %w", err)
	}

	s.authors.Upsert(ownerID, author)

	return author, nil
}

// List returns the owner's favorite authors.
func (s *AuthorService) List(ctx context.Context, ownerID string) ([]*domain.FavoriteAuthor, error) {
	return s.authors.Get(ownerID, func() ([]*domain.FavoriteAuthor, error) {
		return s.store.ListFavoriteAuthors(ctx, ownerID)
	})
}

// Remove deletes a favorite author.
func (s *AuthorService) Remove(ctx context.Context, ownerID, authorID string) error {
	if err := s.store.DeleteFavoriteAuthor(ctx, ownerID, authorID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("favorite author not found")
		}
		return fmt.Errorf("delete favorite author: %w", err)
	}

	s.authors.Remove(ownerID, authorID)

	return nil
}
