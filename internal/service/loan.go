package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/cache"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// LoanService tracks which books the owner has lent out.
// Loans are history; they are never deleted, only marked returned.
type LoanService struct {
	store  store.Store
	loans  *cache.Collection[*domain.Loan]
	logger *slog.Logger
}

// NewLoanService creates a loan service.
func NewLoanService(store store.Store, logger *slog.Logger) *LoanService {
	return &LoanService{
		store:  store,
		loans:  cache.NewCollection(func(l *domain.Loan) string { return l.ID }),
		logger: logger,
	}
}

// CreateLoanRequest contains the fields for a new loan.
type CreateLoanRequest struct {
	BookID   string     `json:"book_id" validate:"required"`
	Borrower string     `json:"borrower" validate:"required,max=100"`
	LoanedAt *time.Time `json:"loaned_at"`
}

// Create records a loan for a book the owner holds.
func (s *LoanService) Create(ctx context.Context, ownerID string, req CreateLoanRequest) (*domain.Loan, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// Loans reference the owner's own books only.
	if _, err := s.store.GetBook(ctx, ownerID, req.BookID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, err
	}

	loanID, err := id.Generate("loan")
	if err != nil {
		return nil, fmt.Errorf("generate loan ID: %w", err)
	}

	loanedAt := time.Now()
	if req.LoanedAt != nil {
		loanedAt = *req.LoanedAt
	}

	loan := &domain.Loan{
		ID:       loanID,
		OwnerID:  ownerID,
		BookID:   req.BookID,
		Borrower: req.Borrower,
		LoanedAt: loanedAt,
	}

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}

	s.loans.Upsert(ownerID, loan)
	s.logger.Info("loan created", "owner_id", ownerID, "loan_id", loan.ID, "book_id", req.BookID)

	return loan, nil
}

// List returns the owner's full loan history, open and returned.
func (s *LoanService) List(ctx context.Context, ownerID string) ([]*domain.Loan, error) {
	return s.loans.Get(ownerID, func() ([]*domain.Loan, error) {
		return s.store.ListLoans(ctx, ownerID)
	})
}

// Return marks a loan as returned. A zero returnedAt means now. Returning
// an already-returned loan overwrites the date; there is no guard, the
// caller owns their history.
func (s *LoanService) Return(ctx context.Context, ownerID, loanID string, returnedAt time.Time) (*domain.Loan, error) {
	if returnedAt.IsZero() {
		returnedAt = time.Now()
	}

	loan, err := s.store.SetLoanReturned(ctx, ownerID, loanID, returnedAt)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("loan not found")
		}
		return nil, fmt.Errorf("mark loan returned: %w", err)
	}

	s.loans.Upsert(ownerID, loan)

	return loan, nil
}
