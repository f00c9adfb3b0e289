package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// quoteColumns is the ordered list of columns selected in quote queries.
// Must match the scan order in scanQuote.
const quoteColumns = `id, owner_id, content, author, book_id, book_title, page, created_at`

// scanQuote scans a sql.Row (or sql.Rows via its Scan method) into a domain.Quote.
func scanQuote(scanner interface{ Scan(dest ...any) error }) (*domain.Quote, error) {
	var q domain.Quote

	var (
		author    sql.NullString
		bookID    sql.NullString
		bookTitle sql.NullString
		page      sql.NullInt64
		createdAt string
	)

	err := scanner.Scan(
		&q.ID,
		&q.OwnerID,
		&q.Content,
		&author,
		&bookID,
		&bookTitle,
		&page,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	q.Author = author.String
	q.BookID = bookID.String
	q.BookTitle = bookTitle.String
	q.Page = int(page.Int64)

	q.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &q, nil
}

// CreateQuote inserts a new quote.
func (s *Store) CreateQuote(ctx context.Context, q *domain.Quote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (`+quoteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID,
		q.OwnerID,
		q.Content,
		nullString(q.Author),
		nullString(q.BookID),
		nullString(q.BookTitle),
		nullInt64(int64(q.Page)),
		formatTime(q.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetQuote retrieves a quote by ID, scoped to the owner.
func (s *Store) GetQuote(ctx context.Context, ownerID, quoteID string) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ? AND owner_id = ?`,
		quoteID, ownerID)

	q, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuotes returns all of the owner's quotes, newest first.
func (s *Store) ListQuotes(ctx context.Context, ownerID string) ([]*domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE owner_id = ? ORDER BY created_at DESC, id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if quotes == nil {
		quotes = []*domain.Quote{}
	}

	return quotes, nil
}

// UpdateQuote updates a quote row, scoped to its owner.
// Returns store.ErrNotFound if the row does not exist under that owner.
func (s *Store) UpdateQuote(ctx context.Context, q *domain.Quote) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE quotes SET
			content = ?,
			author = ?,
			book_id = ?,
			book_title = ?,
			page = ?
		WHERE id = ? AND owner_id = ?`,
		q.Content,
		nullString(q.Author),
		nullString(q.BookID),
		nullString(q.BookTitle),
		nullInt64(int64(q.Page)),
		q.ID,
		q.OwnerID,
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

// DeleteQuote removes a quote, scoped to its owner.
func (s *Store) DeleteQuote(ctx context.Context, ownerID, quoteID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM quotes WHERE id = ? AND owner_id = ?`, quoteID, ownerID)
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
