package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, owner_id, title, author, publisher, rating, comment, status, favorite, cover_url, cover_blurhash, created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		author    sql.NullString
		publisher sql.NullString
		comment   sql.NullString
		status    string
		favorite  int
		coverURL  sql.NullString
		blurhash  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Title,
		&author,
		&publisher,
		&b.Rating,
		&comment,
		&status,
		&favorite,
		&coverURL,
		&blurhash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Author = author.String
	b.Publisher = publisher.String
	b.Comment = comment.String
	b.Status = domain.ReadingStatus(status)
	b.Favorite = favorite != 0
	b.CoverURL = coverURL.String
	b.CoverBlurhash = blurhash.String

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// boolInt converts a bool to the 0/1 integer SQLite stores.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CreateBook inserts a new book row.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.OwnerID,
		b.Title,
		nullString(b.Author),
		nullString(b.Publisher),
		b.Rating,
		nullString(b.Comment),
		string(b.Status),
		boolInt(b.Favorite),
		nullString(b.CoverURL),
		nullString(b.CoverBlurhash),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book by ID, scoped to the owner.
// A book owned by someone else is indistinguishable from a missing one:
// both return store.ErrNotFound.
func (s *Store) GetBook(ctx context.Context, ownerID, bookID string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ? AND owner_id = ?`,
		bookID, ownerID)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// likePattern builds a case-insensitive LIKE pattern for a substring
// match, escaping SQL wildcard characters in the needle.
func likePattern(needle string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(needle)
	return "%" + strings.ToLower(escaped) + "%"
}

// ListBooks returns the owner's books matching the filter, newest first.
func (s *Store) ListBooks(ctx context.Context, ownerID string, filter store.BookFilter) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.Title != "" {
		query += ` AND LOWER(title) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(filter.Title))
	}

	if len(filter.Authors) > 0 {
		clauses := make([]string, len(filter.Authors))
		for i, author := range filter.Authors {
			clauses[i] = `LOWER(author) LIKE ? ESCAPE '\'`
			args = append(args, likePattern(author))
		}
		query += ` AND (` + strings.Join(clauses, " OR ") + `)`
	}

	if len(filter.TagIDs) > 0 {
		// Separate link-table lookup, then an inclusion filter on book IDs.
		bookIDs, err := s.ListBookIDsForTags(ctx, ownerID, filter.TagIDs)
		if err != nil {
			return nil, err
		}
		if len(bookIDs) == 0 {
			return []*domain.Book{}, nil
		}
		placeholders := strings.Repeat("?,", len(bookIDs))
		placeholders = placeholders[:len(placeholders)-1]
		query += ` AND id IN (` + placeholders + `)`
		for _, bookID := range bookIDs {
			args = append(args, bookID)
		}
	}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}

	if filter.FavoriteOnly {
		query += ` AND favorite = 1`
	}

	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if books == nil {
		books = []*domain.Book{}
	}

	return books, nil
}

// UpdateBook updates a book row, scoped to its owner.
// Returns store.ErrNotFound if the row does not exist under that owner.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			title = ?,
			author = ?,
			publisher = ?,
			rating = ?,
			comment = ?,
			status = ?,
			favorite = ?,
			cover_url = ?,
			cover_blurhash = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		b.Title,
		nullString(b.Author),
		nullString(b.Publisher),
		b.Rating,
		nullString(b.Comment),
		string(b.Status),
		boolInt(b.Favorite),
		nullString(b.CoverURL),
		nullString(b.CoverBlurhash),
		formatTime(b.UpdatedAt),
		b.ID,
		b.OwnerID,
	)
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

// DeleteBook removes a book row, scoped to its owner.
// Tag links and loans cascade at the schema level.
func (s *Store) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = ? AND owner_id = ?`, bookID, ownerID)
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

// AddBookTag links a tag to a book. Both must belong to the owner; the
// link insert verifies ownership of each side with correlated lookups so
// a forged ID pair cannot cross user boundaries.
func (s *Store) AddBookTag(ctx context.Context, ownerID, bookID, tagID string) error {
	linkID := fmt.Sprintf("bt-%s-%s", bookID, tagID)
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO book_tags (id, owner_id, book_id, tag_id)
		SELECT ?, ?, b.id, t.id
		FROM books b, tags t
		WHERE b.id = ? AND b.owner_id = ? AND t.id = ? AND t.owner_id = ?
		ON CONFLICT (book_id, tag_id) DO NOTHING`,
		linkID, ownerID, bookID, ownerID, tagID, ownerID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			// Link already present; idempotent.
			return nil
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the link already existed (fine) or one side is not
		// owned by the caller. Distinguish by probing for the link.
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM book_tags WHERE book_id = ? AND tag_id = ? AND owner_id = ?`,
			bookID, tagID, ownerID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveBookTag unlinks a tag from a book, scoped to the owner.
// Removing a link that does not exist is not an error.
func (s *Store) RemoveBookTag(ctx context.Context, ownerID, bookID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM book_tags WHERE book_id = ? AND tag_id = ? AND owner_id = ?`,
		bookID, tagID, ownerID)
	return err
}

// ListTagsForBook returns the tags linked to a book, scoped to the owner.
func (s *Store) ListTagsForBook(ctx context.Context, ownerID, bookID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.owner_id, t.name, t.created_at, t.updated_at
		FROM tags t
		JOIN book_tags bt ON bt.tag_id = t.id
		WHERE bt.book_id = ? AND bt.owner_id = ?
		ORDER BY t.name, t.id`,
		bookID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// ListBookIDsForTags returns the IDs of the owner's books carrying at
// least one of the given tags.
func (s *Store) ListBookIDsForTags(ctx context.Context, ownerID string, tagIDs []string) ([]string, error) {
	if len(tagIDs) == 0 {
		return []string{}, nil
	}

	placeholders := strings.Repeat("?,", len(tagIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := []any{ownerID}
	for _, tagID := range tagIDs {
		args = append(args, tagID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT book_id FROM book_tags
		WHERE owner_id = ? AND tag_id IN (`+placeholders+`)
		ORDER BY book_id`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		bookIDs = append(bookIDs, id)
	}
	return bookIDs, rows.Err()
}
