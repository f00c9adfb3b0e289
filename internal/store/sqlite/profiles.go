package sqlite

import (
	"context"
	"database/sql"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// GetProfile retrieves the profile for a user.
// Returns store.ErrNotFound if the user has not created one yet.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, bio, updated_at FROM profiles WHERE user_id = ?`,
		userID)

	var p domain.Profile
	var (
		bio       sql.NullString
		updatedAt string
	)

	err := row.Scan(&p.UserID, &p.Username, &bio, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Bio = bio.String
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// UpsertProfile creates or replaces the user's profile.
// Profiles are one-to-one with accounts and have no separate create path.
func (s *Store) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, username, bio, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			username = excluded.username,
			bio = excluded.bio,
			updated_at = excluded.updated_at`,
		p.UserID,
		p.Username,
		nullString(p.Bio),
		formatTime(p.UpdatedAt),
	)
	return err
}
