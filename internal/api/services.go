package api

import (
	"github.com/shelfmark/shelfmark-server/internal/media/images"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Profile *service.ProfileService
	Book    *service.BookService
	Tag     *service.TagService
	Loan    *service.LoanService
	Quote   *service.QuoteService
	Author  *service.AuthorService
	Ingest  *service.IngestService
}

// StorageServices groups file storage handlers used by the API server.
type StorageServices struct {
	Covers *images.Storage
}
