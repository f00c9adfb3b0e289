package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/cache"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// BookService manages the per-owner book collection.
//
// Unfiltered listings come from an in-memory collection cache that is fetched
// once per owner and reconciled after each successful mutation. Filtered
// searches always hit the store; SQL is better at them than we are.
type BookService struct {
	store  store.Store
	books  *cache.Collection[*domain.Book]
	logger *slog.Logger
}

// NewBookService creates a book service.
func NewBookService(store store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		books:  cache.NewCollection(func(b *domain.Book) string { return b.ID }),
		logger: logger,
	}
}

// CreateBookRequest contains the fields for a new book.
type CreateBookRequest struct {
	Title         string `json:"title" validate:"required,max=500"`
	Author        string `json:"author" validate:"omitempty,max=200"`
	Publisher     string `json:"publisher" validate:"omitempty,max=200"`
	Rating        int    `json:"rating" validate:"gte=0,lte=5"`
	Comment       string `json:"comment" validate:"omitempty,max=100"`
	Status        string `json:"status" validate:"omitempty,oneof=unread reading completed"`
	Favorite      bool   `json:"favorite"`
	CoverURL      string `json:"cover_url" validate:"omitempty,max=500"`
	CoverBlurhash string `json:"cover_blurhash" validate:"omitempty,max=100"`
}

// UpdateBookRequest contains partial updates; nil fields are left unchanged.
type UpdateBookRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=500"`
	Author        *string `json:"author" validate:"omitempty,max=200"`
	Publisher     *string `json:"publisher" validate:"omitempty,max=200"`
	Rating        *int    `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Comment       *string `json:"comment" validate:"omitempty,max=100"`
	Status        *string `json:"status" validate:"omitempty,oneof=unread reading completed"`
	Favorite      *bool   `json:"favorite"`
	CoverURL      *string `json:"cover_url" validate:"omitempty,max=500"`
	CoverBlurhash *string `json:"cover_blurhash" validate:"omitempty,max=100"`
}

// Create adds a book to the owner's collection.
func (s *BookService) Create(ctx context.Context, ownerID string, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("bk")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	status := domain.ReadingStatus(req.Status)
	if status == "" {
		status = domain.StatusUnread
	}

	now := time.Now()
	book := &domain.Book{
		ID:            bookID,
		OwnerID:       ownerID,
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Status:        status,
		Favorite:      req.Favorite,
		CoverURL:      req.CoverURL,
		CoverBlurhash: req.CoverBlurhash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := book.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.books.Upsert(ownerID, book)
	s.logger.Info("book created", "owner_id", ownerID, "book_id", book.ID)

	return book, nil
}

// Get fetches one book.
func (s *BookService) Get(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, err
	}
	return book, nil
}

// List returns all of the owner's books, newest first.
func (s *BookService) List(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	return s.books.Get(ownerID, func() ([]*domain.Book, error) {
		return s.store.ListBooks(ctx, ownerID, store.BookFilter{})
	})
}

// Search returns books matching the filter.
func (s *BookService) Search(ctx context.Context, ownerID string, filter store.BookFilter) ([]*domain.Book, error) {
	if filter.Empty() {
		return s.List(ctx, ownerID)
	}
	return s.store.ListBooks(ctx, ownerID, filter)
}

// SearchByFavoriteAuthors returns books whose author matches any of the
// owner's favorite authors. No favorites means no matches.
func (s *BookService) SearchByFavoriteAuthors(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	authors, err := s.store.ListFavoriteAuthors(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list favorite authors: %w", err)
	}
	if len(authors) == 0 {
		return []*domain.Book{}, nil
	}

	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
	}

	return s.store.ListBooks(ctx, ownerID, store.BookFilter{Authors: names})
}

// Update applies a partial update to a book.
func (s *BookService) Update(ctx context.Context, ownerID, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, ownerID, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.Rating != nil {
		book.Rating = *req.Rating
	}
	if req.Comment != nil {
		book.Comment = *req.Comment
	}
	if req.Status != nil {
		book.Status = domain.ReadingStatus(*req.Status)
	}
	if req.Favorite != nil {
		book.Favorite = *req.Favorite
	}
	if req.CoverURL != nil {
		book.CoverURL = *req.CoverURL
	}
	if req.CoverBlurhash != nil {
		book.CoverBlurhash = *req.CoverBlurhash
	}
	book.UpdatedAt = time.Now()

	if err := book.Validate(); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.books.Upsert(ownerID, book)

	return book, nil
}

// Delete removes a book. Loans and tag links cascade; quotes keep their
// snapshot of the title.
func (s *BookService) Delete(ctx context.Context, ownerID, bookID string) error {
	if err := s.store.DeleteBook(ctx, ownerID, bookID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.books.Remove(ownerID, bookID)
	s.logger.Info("book deleted", "owner_id", ownerID, "book_id", bookID)

	return nil
}

// AssignTags links a set of tags to a book. The link inserts run
// concurrently and independently; the result reports the outcome per tag,
// so one foreign or missing tag does not block the rest.
func (s *BookService) AssignTags(ctx context.Context, ownerID, bookID string, tagIDs []string) ([]store.TagAssignment, error) {
	if _, err := s.Get(ctx, ownerID, bookID); err != nil {
		return nil, err
	}

	results := make([]store.TagAssignment, len(tagIDs))

	var wg sync.WaitGroup
	for i, tagID := range tagIDs {
		wg.Add(1)
		go func(i int, tagID string) {
			defer wg.Done()
			results[i] = store.TagAssignment{
				TagID: tagID,
				Err:   s.store.AddBookTag(ctx, ownerID, bookID, tagID),
			}
		}(i, tagID)
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		s.logger.Warn("partial tag assignment",
			"owner_id", ownerID,
			"book_id", bookID,
			"failed", failed,
			"total", len(tagIDs),
		)
	}

	return results, nil
}

// RemoveTag unlinks a tag from a book.
func (s *BookService) RemoveTag(ctx context.Context, ownerID, bookID, tagID string) error {
	if err := s.store.RemoveBookTag(ctx, ownerID, bookID, tagID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag link not found")
		}
		return fmt.Errorf("remove book tag: %w", err)
	}
	return nil
}

// ListTags returns the tags attached to a book.
func (s *BookService) ListTags(ctx context.Context, ownerID, bookID string) ([]*domain.Tag, error) {
	if _, err := s.Get(ctx, ownerID, bookID); err != nil {
		return nil, err
	}
	return s.store.ListTagsForBook(ctx, ownerID, bookID)
}
