// Package store defines the persistence contract for the Shelfmark server.
//
// Every owner-scoped method takes the owner's user ID explicitly and must
// apply it as a filter, even where the caller has already checked
// authorization. The ownership predicate travels with every query as
// defense in depth; the store never trusts the service layer to have
// filtered for it.
package store

import (
	"context"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// BookFilter narrows a book listing. Zero value matches everything.
type BookFilter struct {
	// Title is a case-insensitive substring match on the title.
	Title string
	// Authors is an OR-list of case-insensitive substring matches on the
	// author. Used directly by the favorite-author search.
	Authors []string
	// TagIDs restricts results to books carrying at least one of the tags.
	TagIDs []string
	// Status restricts to one reading status when non-empty.
	Status domain.ReadingStatus
	// FavoriteOnly restricts to favorite-flagged books.
	FavoriteOnly bool
}

// Empty reports whether the filter matches everything.
func (f BookFilter) Empty() bool {
	return f.Title == "" && len(f.Authors) == 0 && len(f.TagIDs) == 0 &&
		f.Status == "" && !f.FavoriteOnly
}

// TagAssignment is the per-tag outcome of a batch tag-link operation.
// Link inserts are issued concurrently and are not transactional; callers
// see exactly which tags attached and which failed.
type TagAssignment struct {
	TagID string `json:"tag_id"`
	Err   error  `json:"-"`
}

// Store is the persistence interface consumed by the service layer.
type Store interface {
	// Users and sessions.
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchUserLogin(ctx context.Context, userID string) error
	CountUsers(ctx context.Context) (int, error)
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, hash string) (*domain.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID string) error

	// Profiles.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, p *domain.Profile) error

	// Books.
	CreateBook(ctx context.Context, b *domain.Book) error
	GetBook(ctx context.Context, ownerID, bookID string) (*domain.Book, error)
	ListBooks(ctx context.Context, ownerID string, filter BookFilter) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, b *domain.Book) error
	DeleteBook(ctx context.Context, ownerID, bookID string) error

	// Book-tag links.
	AddBookTag(ctx context.Context, ownerID, bookID, tagID string) error
	RemoveBookTag(ctx context.Context, ownerID, bookID, tagID string) error
	ListTagsForBook(ctx context.Context, ownerID, bookID string) ([]*domain.Tag, error)
	ListBookIDsForTags(ctx context.Context, ownerID string, tagIDs []string) ([]string, error)

	// Tags.
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, ownerID, tagID string) (*domain.Tag, error)
	ListTags(ctx context.Context, ownerID string) ([]*domain.Tag, error)
	DeleteTag(ctx context.Context, ownerID, tagID string) error

	// Loans.
	CreateLoan(ctx context.Context, l *domain.Loan) error
	GetLoan(ctx context.Context, ownerID, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, ownerID string) ([]*domain.Loan, error)
	SetLoanReturned(ctx context.Context, ownerID, loanID string, returnedAt time.Time) (*domain.Loan, error)

	// Quotes.
	CreateQuote(ctx context.Context, q *domain.Quote) error
	GetQuote(ctx context.Context, ownerID, quoteID string) (*domain.Quote, error)
	ListQuotes(ctx context.Context, ownerID string) ([]*domain.Quote, error)
	UpdateQuote(ctx context.Context, q *domain.Quote) error
	DeleteQuote(ctx context.Context, ownerID, quoteID string) error

	// Favorite authors.
	CreateFavoriteAuthor(ctx context.Context, a *domain.FavoriteAuthor) error
	ListFavoriteAuthors(ctx context.Context, ownerID string) ([]*domain.FavoriteAuthor, error)
	DeleteFavoriteAuthor(ctx context.Context, ownerID, authorID string) error

	Close() error
}
