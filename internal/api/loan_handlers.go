package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerLoanRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans",
		Summary:     "List loans",
		Description: "Returns all loans for the current user, returned ones included",
		Tags:        []string{"Loans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLoans)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLoan",
		Method:      http.MethodPost,
		Path:        "/api/v1/loans",
		Summary:     "Create loan",
		Description: "Records a book lent out to someone",
		Tags:        []string{"Loans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLoan)

	huma.Register(s.api, huma.Operation{
		OperationID: "returnLoan",
		Method:      http.MethodPost,
		Path:        "/api/v1/loans/{id}/return",
		Summary:     "Return loan",
		Description: "Marks a loan as returned; a repeat call overwrites the date",
		Tags:        []string{"Loans"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReturnLoan)
}

// === DTOs ===

// ListLoansInput contains parameters for listing loans.
type ListLoansInput struct {
	Authorization string `header:"Authorization"`
}

// LoanResponse contains loan data in API responses.
type LoanResponse struct {
	ID         string     `json:"id" doc:"Loan ID"`
	BookID     string     `json:"book_id" doc:"Loaned book ID"`
	Borrower   string     `json:"borrower" doc:"Who has the book"`
	LoanedAt   time.Time  `json:"loaned_at" doc:"When the book went out"`
	ReturnedAt *time.Time `json:"returned_at,omitempty" doc:"When the book came back"`
}

// ListLoansResponse contains a list of loans.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans" doc:"List of loans"`
}

// ListLoansOutput wraps the list loans response for Huma.
type ListLoansOutput struct {
	Body ListLoansResponse
}

// CreateLoanRequest is the request body for creating a loan.
type CreateLoanRequest struct {
	BookID   string     `json:"book_id" validate:"required" doc:"Book to lend out"`
	Borrower string     `json:"borrower" validate:"required,max=100" doc:"Who gets the book"`
	LoanedAt *time.Time `json:"loaned_at,omitempty" doc:"Loan date, defaults to now"`
}

// CreateLoanInput wraps the create loan request for Huma.
type CreateLoanInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateLoanRequest
}

// LoanOutput wraps the loan response for Huma.
type LoanOutput struct {
	Body LoanResponse
}

// ReturnLoanRequest is the request body for returning a loan.
type ReturnLoanRequest struct {
	ReturnedAt *time.Time `json:"returned_at,omitempty" doc:"Return date, defaults to now"`
}

// ReturnLoanInput wraps the return loan request for Huma.
type ReturnLoanInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Loan ID"`
	Body          ReturnLoanRequest
}

func mapLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		Borrower:   l.Borrower,
		LoanedAt:   l.LoanedAt,
		ReturnedAt: l.ReturnedAt,
	}
}

// === Handlers ===

func (s *Server) handleListLoans(ctx context.Context, input *ListLoansInput) (*ListLoansOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	loans, err := s.services.Loan.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = mapLoanResponse(l)
	}

	return &ListLoansOutput{Body: ListLoansResponse{Loans: resp}}, nil
}

func (s *Server) handleCreateLoan(ctx context.Context, input *CreateLoanInput) (*LoanOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	loan, err := s.services.Loan.Create(ctx, userID, service.CreateLoanRequest{
		BookID:   input.Body.BookID,
		Borrower: input.Body.Borrower,
		LoanedAt: input.Body.LoanedAt,
	})
	if err != nil {
		return nil, err
	}

	return &LoanOutput{Body: mapLoanResponse(loan)}, nil
}

func (s *Server) handleReturnLoan(ctx context.Context, input *ReturnLoanInput) (*LoanOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	var returnedAt time.Time
	if input.Body.ReturnedAt != nil {
		returnedAt = *input.Body.ReturnedAt
	}

	loan, err := s.services.Loan.Return(ctx, userID, input.ID, returnedAt)
	if err != nil {
		return nil, err
	}

	return &LoanOutput{Body: mapLoanResponse(loan)}, nil
}
