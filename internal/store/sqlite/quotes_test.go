package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func TestCreateAndListQuotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	q := &domain.Quote{
		ID:        "quote-1",
		OwnerID:   "user-1",
		Content:   "The hours of folly are measured by the clock.",
		Author:    "William Blake",
		BookTitle: "The Marriage of Heaven and Hell",
		Page:      7,
		CreatedAt: time.Now(),
	}
	if err := s.CreateQuote(ctx, q); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	quotes, err := s.ListQuotes(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListQuotes: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	got := quotes[0]
	if got.Content != q.Content {
		t.Errorf("Content: got %q, want %q", got.Content, q.Content)
	}
	if got.Page != 7 {
		t.Errorf("Page: got %d, want 7", got.Page)
	}
}

func TestUpdateQuote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	q := &domain.Quote{
		ID:        "quote-1",
		OwnerID:   "user-1",
		Content:   "Original",
		CreatedAt: time.Now(),
	}
	if err := s.CreateQuote(ctx, q); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	q.Content = "Corrected"
	q.Page = 42
	if err := s.UpdateQuote(ctx, q); err != nil {
		t.Fatalf("UpdateQuote: %v", err)
	}

	got, err := s.GetQuote(ctx, "user-1", "quote-1")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if got.Content != "Corrected" || got.Page != 42 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestDeleteQuote_CrossOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-a")
	insertTestUser(t, s, "user-b")

	q := &domain.Quote{
		ID:        "quote-1",
		OwnerID:   "user-a",
		Content:   "Keep me",
		CreatedAt: time.Now(),
	}
	if err := s.CreateQuote(ctx, q); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	err := s.DeleteQuote(ctx, "user-b", "quote-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := s.GetQuote(ctx, "user-a", "quote-1"); err != nil {
		t.Fatalf("quote lost after foreign delete attempt: %v", err)
	}
}

func TestQuote_BookReferenceSurvivesBookDeletion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "user-1", "book-1", "Source", "A")

	q := &domain.Quote{
		ID:        "quote-1",
		OwnerID:   "user-1",
		Content:   "Free-standing",
		BookID:    "book-1",
		BookTitle: "Source",
		CreatedAt: time.Now(),
	}
	if err := s.CreateQuote(ctx, q); err != nil {
		t.Fatalf("CreateQuote: %v", err)
	}

	if err := s.DeleteBook(ctx, "user-1", "book-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	// Quote survives; the book reference is nulled, the title kept.
	got, err := s.GetQuote(ctx, "user-1", "quote-1")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if got.BookID != "" {
		t.Errorf("BookID should be cleared after book deletion, got %q", got.BookID)
	}
	if got.BookTitle != "Source" {
		t.Errorf("BookTitle should survive, got %q", got.BookTitle)
	}
}
