package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func TestFavoriteAuthors_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	a := &domain.FavoriteAuthor{
		ID:        "fav-1",
		OwnerID:   "user-1",
		Name:      "Ursula K. Le Guin",
		CreatedAt: time.Now(),
	}
	if err := s.CreateFavoriteAuthor(ctx, a); err != nil {
		t.Fatalf("CreateFavoriteAuthor: %v", err)
	}

	authors, err := s.ListFavoriteAuthors(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFavoriteAuthors: %v", err)
	}
	if len(authors) != 1 || authors[0].Name != a.Name {
		t.Fatalf("unexpected list: %+v", authors)
	}

	if err := s.DeleteFavoriteAuthor(ctx, "user-1", "fav-1"); err != nil {
		t.Fatalf("DeleteFavoriteAuthor: %v", err)
	}

	authors, err = s.ListFavoriteAuthors(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFavoriteAuthors: %v", err)
	}
	if len(authors) != 0 {
		t.Fatalf("expected empty list, got %d", len(authors))
	}
}

func TestFavoriteAuthors_DuplicateNamesAllowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	for i, id := range []string{"fav-1", "fav-2"} {
		a := &domain.FavoriteAuthor{
			ID:        id,
			OwnerID:   "user-1",
			Name:      "Gene Wolfe",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := s.CreateFavoriteAuthor(ctx, a); err != nil {
			t.Fatalf("CreateFavoriteAuthor %s: %v", id, err)
		}
	}

	authors, err := s.ListFavoriteAuthors(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFavoriteAuthors: %v", err)
	}
	if len(authors) != 2 {
		t.Fatalf("duplicate names should be allowed, got %d entries", len(authors))
	}
}

func TestDeleteFavoriteAuthor_CrossOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-a")
	insertTestUser(t, s, "user-b")

	a := &domain.FavoriteAuthor{
		ID:        "fav-1",
		OwnerID:   "user-a",
		Name:      "Terry Pratchett",
		CreatedAt: time.Now(),
	}
	if err := s.CreateFavoriteAuthor(ctx, a); err != nil {
		t.Fatalf("CreateFavoriteAuthor: %v", err)
	}

	err := s.DeleteFavoriteAuthor(ctx, "user-b", "fav-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTags_DuplicateNamesAllowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	for _, id := range []string{"tag-1", "tag-2"} {
		tag := &domain.Tag{ID: id, OwnerID: "user-1", Name: "fantasy", CreatedAt: now, UpdatedAt: now}
		if err := s.CreateTag(ctx, tag); err != nil {
			t.Fatalf("CreateTag %s: %v", id, err)
		}
	}

	tags, err := s.ListTags(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("duplicate tag names should be allowed, got %d", len(tags))
	}
}

func TestProfiles_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	p := &domain.Profile{
		UserID:    "user-1",
		Username:  "reader",
		Bio:       "I read things.",
		UpdatedAt: time.Now(),
	}
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	p.Bio = "I read many things."
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Bio != "I read many things." {
		t.Errorf("Bio: got %q", got.Bio)
	}
}
