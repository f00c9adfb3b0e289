package domain

import "time"

// FavoriteAuthor is an entry in a user's favorite-author list.
// The list feeds the "search by all favorite authors" action, which
// turns the names into an OR-filter over the owner's books.
type FavoriteAuthor struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
