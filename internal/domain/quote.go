package domain

import "time"

// Quote is a memorable passage recorded by a user.
// It stands on its own but may reference one of the owner's books,
// matched loosely by title when the book was registered separately.
type Quote struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	BookID    string    `json:"book_id,omitempty"`
	BookTitle string    `json:"book_title,omitempty"`
	Page      int       `json:"page,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
