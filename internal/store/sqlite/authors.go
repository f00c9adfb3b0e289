package sqlite

import (
	"context"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// favoriteAuthorColumns is the ordered list of columns selected in
// favorite-author queries. Must match the scan order in scanFavoriteAuthor.
const favoriteAuthorColumns = `id, owner_id, name, created_at`

// scanFavoriteAuthor scans a row into a domain.FavoriteAuthor.
func scanFavoriteAuthor(scanner interface{ Scan(dest ...any) error }) (*domain.FavoriteAuthor, error) {
	var a domain.FavoriteAuthor

	var createdAt string

	err := scanner.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Name,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateFavoriteAuthor inserts a new favorite-author entry.
func (s *Store) CreateFavoriteAuthor(ctx context.Context, a *domain.FavoriteAuthor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorite_authors (`+favoriteAuthorColumns+`)
		VALUES (?, ?, ?, ?)`,
		a.ID,
		a.OwnerID,
		a.Name,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ListFavoriteAuthors returns the owner's favorite authors ordered by name.
func (s *Store) ListFavoriteAuthors(ctx context.Context, ownerID string) ([]*domain.FavoriteAuthor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+favoriteAuthorColumns+` FROM favorite_authors WHERE owner_id = ? ORDER BY name, id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*domain.FavoriteAuthor
	for rows.Next() {
		a, err := scanFavoriteAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if authors == nil {
		authors = []*domain.FavoriteAuthor{}
	}

	return authors, nil
}

// DeleteFavoriteAuthor removes a favorite-author entry, scoped to its owner.
func (s *Store) DeleteFavoriteAuthor(ctx context.Context, ownerID, authorID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM favorite_authors WHERE id = ? AND owner_id = ?`, authorID, ownerID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
