// Package main seeds the database with development data.
//
// It creates a demo user with a small shelf of books, tags, loans, and
// quotes so the API has something to serve right after a fresh start.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/Shelfmark/data
//	go run ./cmd/seed --email demo@example.com --password demo-password
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
)

var (
	dataPath = flag.String("data-path", "", "Base path for data storage (default: ~/Shelfmark/data)")
	email    = flag.String("email", "demo@example.com", "Demo account email")
	password = flag.String("password", "demo-password", "Demo account password")
)

func main() {
	flag.Parse()

	base := *dataPath
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		base = filepath.Join(home, "Shelfmark", "data")
	}

	dbPath := filepath.Join(base, "shelfmark.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           id.MustGenerate("usr"),
		Email:        *email,
		PasswordHash: hash,
		DisplayName:  "Demo Reader",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user (already seeded?): %v", err)
	}
	fmt.Printf("Created user %s (%s)\n", user.ID, user.Email)

	books := []*domain.Book{
		{Title: "The Dispossessed", Author: "Ursula K. Le Guin", Rating: 5, Status: domain.StatusCompleted, Favorite: true},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Rating: 4, Status: domain.StatusCompleted},
		{Title: "The Book of the New Sun", Author: "Gene Wolfe", Status: domain.StatusReading},
		{Title: "Piranesi", Author: "Susanna Clarke", Status: domain.StatusUnread},
	}
	for _, b := range books {
		b.ID = id.MustGenerate("bk")
		b.OwnerID = user.ID
		b.CreatedAt = now
		b.UpdatedAt = now
		if err := s.CreateBook(ctx, b); err != nil {
			log.Fatalf("Failed to create book %q: %v", b.Title, err)
		}
	}
	fmt.Printf("Created %d books\n", len(books))

	tag := &domain.Tag{
		ID:        id.MustGenerate("tag"),
		OwnerID:   user.ID,
		Name:      "sf",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateTag(ctx, tag); err != nil {
		log.Fatalf("Failed to create tag: %v", err)
	}
	for _, b := range books[:3] {
		if err := s.AddBookTag(ctx, user.ID, b.ID, tag.ID); err != nil {
			log.Fatalf("Failed to tag book %q: %v", b.Title, err)
		}
	}

	loan := &domain.Loan{
		ID:       id.MustGenerate("loan"),
		OwnerID:  user.ID,
		BookID:   books[0].ID,
		Borrower: "Sam",
		LoanedAt: now.AddDate(0, 0, -14),
	}
	if err := s.CreateLoan(ctx, loan); err != nil {
		log.Fatalf("Failed to create loan: %v", err)
	}

	quote := &domain.Quote{
		ID:        id.MustGenerate("qt"),
		OwnerID:   user.ID,
		Content:   "You cannot buy the revolution. You can only be the revolution.",
		Author:    "Ursula K. Le Guin",
		BookID:    books[0].ID,
		BookTitle: books[0].Title,
		Page:      301,
		CreatedAt: now,
	}
	if err := s.CreateQuote(ctx, quote); err != nil {
		log.Fatalf("Failed to create quote: %v", err)
	}

	author := &domain.FavoriteAuthor{
		ID:        id.MustGenerate("fav"),
		OwnerID:   user.ID,
		Name:      "Le Guin",
		CreatedAt: now,
	}
	if err := s.CreateFavoriteAuthor(ctx, author); err != nil {
		log.Fatalf("Failed to create favorite author: %v", err)
	}

	fmt.Println("Seed complete.")
}
