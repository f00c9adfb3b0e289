package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerQuoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes",
		Summary:     "List quotes",
		Description: "Returns all quotes for the current user",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListQuotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createQuote",
		Method:      http.MethodPost,
		Path:        "/api/v1/quotes",
		Summary:     "Create quote",
		Description: "Records a quote, optionally linked to one of the user's books",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getQuote",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Get quote",
		Description: "Returns a quote by ID",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateQuote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Update quote",
		Description: "Partially updates a quote",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteQuote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Delete quote",
		Description: "Deletes a quote",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteQuote)
}

// === DTOs ===

// ListQuotesInput contains parameters for listing quotes.
type ListQuotesInput struct {
	Authorization string `header:"Authorization"`
}

// QuoteResponse contains quote data in API responses.
type QuoteResponse struct {
	ID        string    `json:"id" doc:"Quote ID"`
	Content   string    `json:"content" doc:"Quoted text"`
	Author    string    `json:"author,omitempty" doc:"Who said or wrote it"`
	BookID    string    `json:"book_id,omitempty" doc:"Linked book ID, empty if the book was deleted"`
	BookTitle string    `json:"book_title,omitempty" doc:"Title snapshot taken at link time"`
	Page      int       `json:"page,omitempty" doc:"Page number"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListQuotesResponse contains a list of quotes.
type ListQuotesResponse struct {
	Quotes []QuoteResponse `json:"quotes" doc:"List of quotes"`
}

// ListQuotesOutput wraps the list quotes response for Huma.
type ListQuotesOutput struct {
	Body ListQuotesResponse
}

// CreateQuoteRequest is the request body for creating a quote.
type CreateQuoteRequest struct {
	Content string `json:"content" validate:"required,max=2000" doc:"Quoted text"`
	Author  string `json:"author,omitempty" validate:"omitempty,max=200" doc:"Who said or wrote it"`
	BookID  string `json:"book_id,omitempty" doc:"Book to link the quote to"`
	Page    int    `json:"page,omitempty" validate:"gte=0" doc:"Page number"`
}

// CreateQuoteInput wraps the create quote request for Huma.
type CreateQuoteInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateQuoteRequest
}

// QuoteOutput wraps the quote response for Huma.
type QuoteOutput struct {
	Body QuoteResponse
}

// GetQuoteInput contains parameters for getting a quote.
type GetQuoteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Quote ID"`
}

// UpdateQuoteRequest is the request body for partially updating a quote.
// The book link cannot be repointed after creation.
type UpdateQuoteRequest struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1,max=2000" doc:"Quoted text"`
	Author  *string `json:"author,omitempty" validate:"omitempty,max=200" doc:"Who said or wrote it"`
	Page    *int    `json:"page,omitempty" validate:"omitempty,gte=0" doc:"Page number"`
}

// UpdateQuoteInput wraps the update quote request for Huma.
type UpdateQuoteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Quote ID"`
	Body          UpdateQuoteRequest
}

// DeleteQuoteInput contains parameters for deleting a quote.
type DeleteQuoteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Quote ID"`
}

func mapQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Content:   q.Content,
		Author:    q.Author,
		BookID:    q.BookID,
		BookTitle: q.BookTitle,
		Page:      q.Page,
		CreatedAt: q.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListQuotes(ctx context.Context, input *ListQuotesInput) (*ListQuotesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	quotes, err := s.services.Quote.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		resp[i] = mapQuoteResponse(q)
	}

	return &ListQuotesOutput{Body: ListQuotesResponse{Quotes: resp}}, nil
}

func (s *Server) handleCreateQuote(ctx context.Context, input *CreateQuoteInput) (*QuoteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	quote, err := s.services.Quote.Create(ctx, userID, service.CreateQuoteRequest{
		Content: input.Body.Content,
		Author:  input.Body.Author,
		BookID:  input.Body.BookID,
		Page:    input.Body.Page,
	})
	if err != nil {
		return nil, err
	}

	return &QuoteOutput{Body: mapQuoteResponse(quote)}, nil
}

func (s *Server) handleGetQuote(ctx context.Context, input *GetQuoteInput) (*QuoteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	quote, err := s.services.Quote.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &QuoteOutput{Body: mapQuoteResponse(quote)}, nil
}

func (s *Server) handleUpdateQuote(ctx context.Context, input *UpdateQuoteInput) (*QuoteOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	quote, err := s.services.Quote.Update(ctx, userID, input.ID, service.UpdateQuoteRequest{
		Content: input.Body.Content,
		Author:  input.Body.Author,
		Page:    input.Body.Page,
	})
	if err != nil {
		return nil, err
	}

	return &QuoteOutput{Body: mapQuoteResponse(quote)}, nil
}

func (s *Server) handleDeleteQuote(ctx context.Context, input *DeleteQuoteInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Quote.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Quote deleted"}}, nil
}
