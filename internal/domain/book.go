// Package domain contains the core business entities and domain logic for the Shelfmark book tracker.
package domain

import (
	"fmt"
	"time"
)

// ReadingStatus represents where a book sits in the owner's reading life.
type ReadingStatus string

const (
	// StatusUnread marks a book that has not been started.
	StatusUnread ReadingStatus = "unread"
	// StatusReading marks a book currently being read.
	StatusReading ReadingStatus = "reading"
	// StatusCompleted marks a finished book.
	StatusCompleted ReadingStatus = "completed"
)

// Valid reports whether the status is one of the known reading states.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusUnread, StatusReading, StatusCompleted:
		return true
	}
	return false
}

const (
	// MaxRating is the upper bound of the book rating scale.
	MaxRating = 5
	// MaxCommentLength caps the free-text comment on a book.
	MaxCommentLength = 100
)

// Book represents a single book owned by one user.
// Every query touching a book is scoped by OwnerID; a book is never
// visible to anyone but its owner.
type Book struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"owner_id"`
	Title         string        `json:"title"`
	Author        string        `json:"author,omitempty"`
	Publisher     string        `json:"publisher,omitempty"`
	Rating        int           `json:"rating"`
	Comment       string        `json:"comment,omitempty"`
	Status        ReadingStatus `json:"status"`
	Favorite      bool          `json:"favorite"`
	CoverURL      string        `json:"cover_url,omitempty"`
	CoverBlurhash string        `json:"cover_blurhash,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Validate checks the domain invariants that must hold for every book row.
// The store schema enforces the same bounds as a second line of defense.
func (b *Book) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.Rating < 0 || b.Rating > MaxRating {
		return fmt.Errorf("rating must be between 0 and %d, got %d", MaxRating, b.Rating)
	}
	if len([]rune(b.Comment)) > MaxCommentLength {
		return fmt.Errorf("comment must not exceed %d characters", MaxCommentLength)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("invalid reading status %q", b.Status)
	}
	return nil
}

// BookInfo is the recognized metadata guess for a book cover.
// Produced by the recognition workflow, edited by the user before save.
type BookInfo struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
}

// BookDraft is an unsaved, user-editable book produced by the ingestion
// pipeline. No book row exists until the user confirms the draft through
// the regular create operation.
type BookDraft struct {
	Info          BookInfo `json:"book_info"`
	CoverURL      string   `json:"cover_url"`
	CoverBlurhash string   `json:"cover_blurhash,omitempty"`
}
