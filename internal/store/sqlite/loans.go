package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// loanColumns is the ordered list of columns selected in loan queries.
// Must match the scan order in scanLoan.
const loanColumns = `id, owner_id, book_id, borrower, loaned_at, returned_at`

// scanLoan scans a sql.Row (or sql.Rows via its Scan method) into a domain.Loan.
func scanLoan(scanner interface{ Scan(dest ...any) error }) (*domain.Loan, error) {
	var l domain.Loan

	var (
		loanedAt   string
		returnedAt sql.NullString
	)

	err := scanner.Scan(
		&l.ID,
		&l.OwnerID,
		&l.BookID,
		&l.Borrower,
		&loanedAt,
		&returnedAt,
	)
	if err != nil {
		return nil, err
	}

	l.LoanedAt, err = parseTime(loanedAt)
	if err != nil {
		return nil, err
	}
	l.ReturnedAt, err = parseNullableTime(returnedAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// CreateLoan inserts a new loan. A loan always starts on-loan; any
// ReturnedAt on the input is ignored.
func (s *Store) CreateLoan(ctx context.Context, l *domain.Loan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (`+loanColumns+`)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		l.ID,
		l.OwnerID,
		l.BookID,
		l.Borrower,
		formatTime(l.LoanedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	l.ReturnedAt = nil
	return nil
}

// GetLoan retrieves a loan by ID, scoped to the owner.
func (s *Store) GetLoan(ctx context.Context, ownerID, loanID string) (*domain.Loan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ? AND owner_id = ?`,
		loanID, ownerID)

	l, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListLoans returns all of the owner's loans, most recent first.
// Returned loans are included; they are part of the lending history.
func (s *Store) ListLoans(ctx context.Context, ownerID string) ([]*domain.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE owner_id = ? ORDER BY loaned_at DESC, id`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if loans == nil {
		loans = []*domain.Loan{}
	}

	return loans, nil
}

// SetLoanReturned sets the return date on a loan, scoped to the owner,
// and returns the updated loan. This is the loan's only mutation path.
// Setting a date on an already-returned loan overwrites the previous
// date; there is no double-return protection.
func (s *Store) SetLoanReturned(ctx context.Context, ownerID, loanID string, returnedAt time.Time) (*domain.Loan, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE loans SET returned_at = ? WHERE id = ? AND owner_id = ?`,
		formatTime(returnedAt), loanID, ownerID)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetLoan(ctx, ownerID, loanID)
}
