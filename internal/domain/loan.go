package domain

import "time"

// Loan tracks a book lent out to a friend.
//
// The lifecycle is a two-state machine: a loan is created on-loan
// (ReturnedAt nil) and the only mutation is marking it returned
// (ReturnedAt set). There is no transition back, no cancellation, and
// loans are never hard-deleted. A second return overwrites the date;
// this mirrors the original behavior and is covered by tests.
type Loan struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"owner_id"`
	BookID     string     `json:"book_id"`
	Borrower   string     `json:"borrower"`
	LoanedAt   time.Time  `json:"loaned_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

// Returned reports whether the loan has been marked returned.
func (l *Loan) Returned() bool {
	return l.ReturnedAt != nil
}

// MarkReturned sets the return date, closing the loan.
func (l *Loan) MarkReturned(at time.Time) {
	t := at
	l.ReturnedAt = &t
}
