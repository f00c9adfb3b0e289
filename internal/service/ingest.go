package service

import (
	"context"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/media/images"
	"github.com/shelfmark/shelfmark-server/internal/recognition"
)

// IngestService turns an uploaded cover photo into a stored cover image and,
// when recognition is configured, a pre-filled book draft.
//
// The pipeline has two independent halves: compress-and-store always runs
// first, so a recognition failure still leaves a usable cover behind. The
// error carries the cover URL for exactly that case.
type IngestService struct {
	processor  *images.Processor
	storage    *images.Storage
	recognizer recognition.Recognizer
	logger     *slog.Logger
}

// NewIngestService creates an ingest service. recognizer may be nil when
// recognition is not configured; uploads still work.
func NewIngestService(
	processor *images.Processor,
	storage *images.Storage,
	recognizer recognition.Recognizer,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		processor:  processor,
		storage:    storage,
		recognizer: recognizer,
		logger:     logger,
	}
}

// UploadResult describes a stored cover.
type UploadResult struct {
	CoverURL string `json:"cover_url"`
	BlurHash string `json:"cover_blurhash,omitempty"`
	Bytes    int    `json:"bytes"`
}

// UploadCover compresses an uploaded image and stores it, returning its
// public URL.
func (s *IngestService) UploadCover(ctx context.Context, data []byte) (*UploadResult, error) {
	result, err := s.processor.Process(data)
	if err != nil {
		return nil, err
	}

	key := images.NewKey()
	if err := s.storage.Save(key, result.Data); err != nil {
		return nil, domainerrors.ErrUploadFailed.WithCause(err)
	}

	s.logger.Info("cover stored",
		"key", key,
		"bytes", len(result.Data),
		"attempts", result.Attempts,
	)

	return &UploadResult{
		CoverURL: s.storage.URLPath(key),
		BlurHash: result.BlurHash,
		Bytes:    len(result.Data),
	}, nil
}

// RecognizeCover stores the cover and asks the recognition API for book
// metadata, returning an editable draft. The draft is not a book; nothing
// is written to the collection until the user confirms it.
//
// When recognition fails after the cover was stored, the returned error
// carries the cover URL in its details so the client can fall back to
// manual entry without re-uploading.
func (s *IngestService) RecognizeCover(ctx context.Context, data []byte) (*domain.BookDraft, error) {
	result, err := s.processor.Process(data)
	if err != nil {
		return nil, err
	}

	key := images.NewKey()
	if err := s.storage.Save(key, result.Data); err != nil {
		return nil, domainerrors.ErrUploadFailed.WithCause(err)
	}
	coverURL := s.storage.URLPath(key)

	if s.recognizer == nil {
		return nil, domainerrors.RecognitionFailed("recognition is not configured").
			WithDetails(map[string]string{"cover_url": coverURL})
	}

	info, err := s.recognizer.Recognize(ctx, result.Data)
	if err != nil {
		s.logger.Warn("cover recognition failed", "key", key, "error", err)
		return nil, domainerrors.ErrRecognitionFailed.
			WithCause(err).
			WithDetails(map[string]string{"cover_url": coverURL})
	}

	return &domain.BookDraft{
		Info:          *info,
		CoverURL:      coverURL,
		CoverBlurhash: result.BlurHash,
	}, nil
}
