package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// QuoteService manages saved quotes.
//
// Quotes read through to the store rather than going through the collection
// cache: deleting a book clears quote book references server-side, and a
// cached copy would silently keep the dangling reference.
type QuoteService struct {
	store  store.Store
	logger *slog.Logger
}

// NewQuoteService creates a quote service.
func NewQuoteService(store store.Store, logger *slog.Logger) *QuoteService {
	return &QuoteService{store: store, logger: logger}
}

// CreateQuoteRequest contains the fields for a new quote.
type CreateQuoteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
	Author  string `json:"author" validate:"omitempty,max=200"`
	BookID  string `json:"book_id" validate:"omitempty"`
	Page    int    `json:"page" validate:"gte=0"`
}

// UpdateQuoteRequest contains partial updates; nil fields are left unchanged.
type UpdateQuoteRequest struct {
	Content *string `json:"content" validate:"omitempty,max=2000"`
	Author  *string `json:"author" validate:"omitempty,max=200"`
	Page    *int    `json:"page" validate:"omitempty,gte=0"`
}

// Create saves a quote. When BookID is set the book must belong to the
// owner, and its title is snapshotted so the quote outlives the book.
func (s *QuoteService) Create(ctx context.Context, ownerID string, req CreateQuoteRequest) (*domain.Quote, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var bookTitle string
	if req.BookID != "" {
		book, err := s.store.GetBook(ctx, ownerID, req.BookID)
		if err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFound("book not found")
			}
			return nil, err
		}
		bookTitle = book.Title
	}

	quoteID, err := id.Generate("qt")
	if err != nil {
		return nil, fmt.Errorf("generate quote ID: %w", err)
	}

	quote := &domain.Quote{
		ID:        quoteID,
		OwnerID:   ownerID,
		Content:   req.Content,
		Author:    req.Author,
		BookID:    req.BookID,
		BookTitle: bookTitle,
		Page:      req.Page,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	return quote, nil
}

// Get fetches one quote.
func (s *QuoteService) Get(ctx context.Context, ownerID, quoteID string) (*domain.Quote, error) {
	quote, err := s.store.GetQuote(ctx, ownerID, quoteID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("quote not found")
		}
		return nil, err
	}
	return quote, nil
}

// List returns the owner's quotes, newest first.
func (s *QuoteService) List(ctx context.Context, ownerID string) ([]*domain.Quote, error) {
	return s.store.ListQuotes(ctx, ownerID)
}

// Update applies a partial update to a quote. The book reference is fixed
// at creation and cannot be repointed.
func (s *QuoteService) Update(ctx context.Context, ownerID, quoteID string, req UpdateQuoteRequest) (*domain.Quote, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	quote, err := s.Get(ctx, ownerID, quoteID)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		quote.Content = *req.Content
	}
	if req.Author != nil {
		quote.Author = *req.Author
	}
	if req.Page != nil {
		quote.Page = *req.Page
	}

	if err := s.store.UpdateQuote(ctx, quote); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("quote not found")
		}
		return nil, fmt.Errorf("update quote: %w", err)
	}

	return quote, nil
}

// Delete removes a quote.
func (s *QuoteService) Delete(ctx context.Context, ownerID, quoteID string) error {
	if err := s.store.DeleteQuote(ctx, ownerID, quoteID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("quote not found")
		}
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}
