package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavoriteAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorite-authors",
		Summary:     "List favorite authors",
		Description: "Returns the current user's favorite-author list",
		Tags:        []string{"Favorite Authors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFavoriteAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "addFavoriteAuthor",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorite-authors",
		Summary:     "Add favorite author",
		Description: "Adds a name to the favorite-author list",
		Tags:        []string{"Favorite Authors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddFavoriteAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFavoriteAuthor",
		Method:      http.MethodDelete,
		Path:        "/api/v1/favorite-authors/{id}",
		Summary:     "Remove favorite author",
		Description: "Removes an entry from the favorite-author list",
		Tags:        []string{"Favorite Authors"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFavoriteAuthor)
}

// === DTOs ===

// ListFavoriteAuthorsInput contains parameters for listing favorite authors.
type ListFavoriteAuthorsInput struct {
	Authorization string `header:"Authorization"`
}

// FavoriteAuthorResponse contains favorite-author data in API responses.
type FavoriteAuthorResponse struct {
	ID        string    `json:"id" doc:"Entry ID"`
	Name      string    `json:"name" doc:"Author name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListFavoriteAuthorsResponse contains a list of favorite authors.
type ListFavoriteAuthorsResponse struct {
	Authors []FavoriteAuthorResponse `json:"authors" doc:"Favorite authors"`
}

// ListFavoriteAuthorsOutput wraps the list response for Huma.
type ListFavoriteAuthorsOutput struct {
	Body ListFavoriteAuthorsResponse
}

// AddFavoriteAuthorRequest is the request body for adding a favorite author.
type AddFavoriteAuthorRequest struct {
	Name string `json:"name" validate:"required,max=200" doc:"Author name"`
}

// AddFavoriteAuthorInput wraps the add request for Huma.
type AddFavoriteAuthorInput struct {
	Authorization string `header:"Authorization"`
	Body          AddFavoriteAuthorRequest
}

// FavoriteAuthorOutput wraps the favorite-author response for Huma.
type FavoriteAuthorOutput struct {
	Body FavoriteAuthorResponse
}

// RemoveFavoriteAuthorInput contains parameters for removing an entry.
type RemoveFavoriteAuthorInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Entry ID"`
}

func mapFavoriteAuthorResponse(a *domain.FavoriteAuthor) FavoriteAuthorResponse {
	return FavoriteAuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListFavoriteAuthors(ctx context.Context, input *ListFavoriteAuthorsInput) (*ListFavoriteAuthorsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	authors, err := s.services.Author.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]FavoriteAuthorResponse, len(authors))
	for i, a := range authors {
		resp[i] = mapFavoriteAuthorResponse(a)
	}

	return &ListFavoriteAuthorsOutput{Body: ListFavoriteAuthorsResponse{Authors: resp}}, nil
}

func (s *Server) handleAddFavoriteAuthor(ctx context.Context, input *AddFavoriteAuthorInput) (*FavoriteAuthorOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	author, err := s.services.Author.Add(ctx, userID, service.AddFavoriteAuthorRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &FavoriteAuthorOutput{Body: mapFavoriteAuthorResponse(author)}, nil
}

func (s *Server) handleRemoveFavoriteAuthor(ctx context.Context, input *RemoveFavoriteAuthorInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Author.Remove(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Favorite author removed"}}, nil
}
