package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the current user's books, optionally filtered",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Registers a new book on the current user's shelf",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooksByFavoriteAuthors",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/by-favorite-authors",
		Summary:     "List books by favorite authors",
		Description: "Returns books whose author matches any favorite author",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooksByFavoriteAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Partially updates a book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book; its quotes keep the title snapshot",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "assignBookTags",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/tags",
		Summary:     "Assign tags",
		Description: "Attaches tags to a book, reporting per-tag outcomes",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAssignBookTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/tags",
		Summary:     "List book tags",
		Description: "Returns the tags attached to a book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBookTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}/tags/{tagId}",
		Summary:     "Remove book tag",
		Description: "Detaches a tag from a book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveBookTag)
}

// === DTOs ===

// ListBooksInput contains parameters for listing and searching books.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
	Title         string `query:"title" doc:"Case-insensitive title substring"`
	Author        string `query:"author" doc:"Case-insensitive author substring"`
	Tag           string `query:"tag" doc:"Restrict to books carrying this tag ID"`
	Status        string `query:"status" doc:"Reading status filter: unread, reading, or completed"`
	Favorite      bool   `query:"favorite" doc:"Only favorite-flagged books"`
}

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID            string    `json:"id" doc:"Book ID"`
	Title         string    `json:"title" doc:"Book title"`
	Author        string    `json:"author,omitempty" doc:"Author name"`
	Publisher     string    `json:"publisher,omitempty" doc:"Publisher name"`
	Rating        int       `json:"rating" doc:"Rating from 0 to 5"`
	Comment       string    `json:"comment,omitempty" doc:"Free-text comment"`
	Status        string    `json:"status" doc:"Reading status"`
	Favorite      bool      `json:"favorite" doc:"Favorite flag"`
	CoverURL      string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	CoverBlurhash string    `json:"cover_blurhash,omitempty" doc:"BlurHash placeholder"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

// ListBooksResponse contains a list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"List of books"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title         string `json:"title" validate:"required,max=500" doc:"Book title"`
	Author        string `json:"author,omitempty" validate:"omitempty,max=200" doc:"Author name"`
	Publisher     string `json:"publisher,omitempty" validate:"omitempty,max=200" doc:"Publisher name"`
	Rating        int    `json:"rating,omitempty" validate:"gte=0,lte=5" doc:"Rating from 0 to 5"`
	Comment       string `json:"comment,omitempty" validate:"omitempty,max=100" doc:"Free-text comment"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=unread reading completed" doc:"Reading status"`
	Favorite      bool   `json:"favorite,omitempty" doc:"Favorite flag"`
	CoverURL      string `json:"cover_url,omitempty" doc:"Cover URL from the ingest workflow"`
	CoverBlurhash string `json:"cover_blurhash,omitempty" doc:"BlurHash from the ingest workflow"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookOutput wraps the book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for partially updating a book.
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Book title"`
	Author        *string `json:"author,omitempty" validate:"omitempty,max=200" doc:"Author name"`
	Publisher     *string `json:"publisher,omitempty" validate:"omitempty,max=200" doc:"Publisher name"`
	Rating        *int    `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5" doc:"Rating from 0 to 5"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=100" doc:"Free-text comment"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=unread reading completed" doc:"Reading status"`
	Favorite      *bool   `json:"favorite,omitempty" doc:"Favorite flag"`
	CoverURL      *string `json:"cover_url,omitempty" doc:"Cover image URL"`
	CoverBlurhash *string `json:"cover_blurhash,omitempty" doc:"BlurHash placeholder"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// AssignBookTagsRequest is the request body for attaching tags.
type AssignBookTagsRequest struct {
	TagIDs []string `json:"tag_ids" validate:"required,min=1" doc:"Tag IDs to attach"`
}

// AssignBookTagsInput wraps the assign tags request for Huma.
type AssignBookTagsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          AssignBookTagsRequest
}

// TagAssignmentResponse is the per-tag outcome of a batch attach.
type TagAssignmentResponse struct {
	TagID    string `json:"tag_id" doc:"Tag ID"`
	Attached bool   `json:"attached" doc:"Whether the tag was attached"`
	Error    string `json:"error,omitempty" doc:"Failure reason when not attached"`
}

// AssignBookTagsResponse lists the outcome for every requested tag.
type AssignBookTagsResponse struct {
	Results []TagAssignmentResponse `json:"results" doc:"Per-tag outcomes"`
}

// AssignBookTagsOutput wraps the assign tags response for Huma.
type AssignBookTagsOutput struct {
	Body AssignBookTagsResponse
}

// ListBookTagsInput contains parameters for listing a book's tags.
type ListBookTagsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// RemoveBookTagInput contains parameters for detaching a tag.
type RemoveBookTagInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	TagID         string `path:"tagId" doc:"Tag ID"`
}

func mapBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		Rating:        b.Rating,
		Comment:       b.Comment,
		Status:        string(b.Status),
		Favorite:      b.Favorite,
		CoverURL:      b.CoverURL,
		CoverBlurhash: b.CoverBlurhash,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func mapBookList(books []*domain.Book) ListBooksResponse {
	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = mapBookResponse(b)
	}
	return ListBooksResponse{Books: resp}
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	filter := store.BookFilter{
		Title:        input.Title,
		Status:       domain.ReadingStatus(input.Status),
		FavoriteOnly: input.Favorite,
	}
	if input.Author != "" {
		filter.Authors = []string{input.Author}
	}
	if input.Tag != "" {
		filter.TagIDs = []string{input.Tag}
	}

	books, err := s.services.Book.Search(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return &ListBooksOutput{Body: mapBookList(books)}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Create(ctx, userID, service.CreateBookRequest{
		Title:         input.Body.Title,
		Author:        input.Body.Author,
		Publisher:     input.Body.Publisher,
		Rating:        input.Body.Rating,
		Comment:       input.Body.Comment,
		Status:        input.Body.Status,
		Favorite:      input.Body.Favorite,
		CoverURL:      input.Body.CoverURL,
		CoverBlurhash: input.Body.CoverBlurhash,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleListBooksByFavoriteAuthors(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Book.SearchByFavoriteAuthors(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListBooksOutput{Body: mapBookList(books)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Update(ctx, userID, input.ID, service.UpdateBookRequest{
		Title:         input.Body.Title,
		Author:        input.Body.Author,
		Publisher:     input.Body.Publisher,
		Rating:        input.Body.Rating,
		Comment:       input.Body.Comment,
		Status:        input.Body.Status,
		Favorite:      input.Body.Favorite,
		CoverURL:      input.Body.CoverURL,
		CoverBlurhash: input.Body.CoverBlurhash,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleAssignBookTags(ctx context.Context, input *AssignBookTagsInput) (*AssignBookTagsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	results, err := s.services.Book.AssignTags(ctx, userID, input.ID, input.Body.TagIDs)
	if err != nil {
		return nil, err
	}

	resp := make([]TagAssignmentResponse, len(results))
	for i, r := range results {
		resp[i] = TagAssignmentResponse{TagID: r.TagID, Attached: r.Err == nil}
		if r.Err != nil {
			resp[i].Error = r.Err.Error()
		}
	}

	return &AssignBookTagsOutput{Body: AssignBookTagsResponse{Results: resp}}, nil
}

func (s *Server) handleListBookTags(ctx context.Context, input *ListBookTagsInput) (*ListTagsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Book.ListTags(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListTagsOutput{Body: mapTagList(tags)}, nil
}

func (s *Server) handleRemoveBookTag(ctx context.Context, input *RemoveBookTagInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.RemoveTag(ctx, userID, input.ID, input.TagID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag removed"}}, nil
}
