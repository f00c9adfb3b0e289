package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerIngestRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadCover",
		Method:      http.MethodPost,
		Path:        "/api/v1/ingest/cover",
		Summary:     "Upload cover",
		Description: "Compresses and stores a cover photo, returning its URL and BlurHash",
		Tags:        []string{"Ingest"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadCover)

	huma.Register(s.api, huma.Operation{
		OperationID: "recognizeCover",
		Method:      http.MethodPost,
		Path:        "/api/v1/ingest/recognize",
		Summary:     "Recognize cover",
		Description: "Stores a cover photo and asks the recognition service for a book draft. The cover survives even when recognition fails.",
		Tags:        []string{"Ingest"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRecognizeCover)
}

// === DTOs ===

// UploadCoverInput carries the raw image bytes for a cover upload.
type UploadCoverInput struct {
	Authorization string `header:"Authorization"`
	RawBody       []byte
}

// UploadCoverResponse describes the stored cover.
type UploadCoverResponse struct {
	CoverURL string `json:"cover_url" doc:"URL the cover is served from"`
	BlurHash string `json:"blur_hash,omitempty" doc:"BlurHash placeholder"`
	Bytes    int    `json:"bytes" doc:"Stored size after compression"`
}

// UploadCoverOutput wraps the upload response for Huma.
type UploadCoverOutput struct {
	Body UploadCoverResponse
}

// RecognizeCoverInput carries the raw image bytes for recognition.
type RecognizeCoverInput struct {
	Authorization string `header:"Authorization"`
	RawBody       []byte
}

// BookInfoResponse is the recognized metadata guess.
type BookInfoResponse struct {
	Title     string `json:"title" doc:"Guessed title"`
	Author    string `json:"author,omitempty" doc:"Guessed author"`
	Publisher string `json:"publisher,omitempty" doc:"Guessed publisher"`
}

// BookDraftResponse is the editable draft produced by recognition.
// No book exists until the client confirms it through the create endpoint.
type BookDraftResponse struct {
	Info          BookInfoResponse `json:"book_info" doc:"Recognized metadata, editable before save"`
	CoverURL      string           `json:"cover_url" doc:"URL the cover is served from"`
	CoverBlurhash string           `json:"cover_blurhash,omitempty" doc:"BlurHash placeholder"`
}

// BookDraftOutput wraps the draft response for Huma.
type BookDraftOutput struct {
	Body BookDraftResponse
}

// === Handlers ===

func (s *Server) handleUploadCover(ctx context.Context, input *UploadCoverInput) (*UploadCoverOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Ingest.UploadCover(ctx, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &UploadCoverOutput{
		Body: UploadCoverResponse{
			CoverURL: result.CoverURL,
			BlurHash: result.BlurHash,
			Bytes:    result.Bytes,
		},
	}, nil
}

func (s *Server) handleRecognizeCover(ctx context.Context, input *RecognizeCoverInput) (*BookDraftOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	draft, err := s.services.Ingest.RecognizeCover(ctx, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &BookDraftOutput{
		Body: BookDraftResponse{
			Info: BookInfoResponse{
				Title:     draft.Info.Title,
				Author:    draft.Info.Author,
				Publisher: draft.Info.Publisher,
			},
			CoverURL:      draft.CoverURL,
			CoverBlurhash: draft.CoverBlurhash,
		},
	}, nil
}
