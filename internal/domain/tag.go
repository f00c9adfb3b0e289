package domain

import "time"

// Tag is a user-scoped label for organizing books.
// Names are deliberately not unique per owner; the original data model
// allows duplicates and callers must tolerate them.
type Tag struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookTag links a book to a tag. Both sides belong to the same owner.
type BookTag struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	BookID  string `json:"book_id"`
	TagID   string `json:"tag_id"`
}
