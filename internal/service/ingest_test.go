package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/media/images"
)

// fakeRecognizer returns a fixed answer or error.
type fakeRecognizer struct {
	info *domain.BookInfo
	err  error
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte) (*domain.BookInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func setupIngestTest(t *testing.T, recognizer *fakeRecognizer) (*IngestService, *images.Storage) {
	t.Helper()

	storage, err := images.NewStorage(filepath.Join(t.TempDir(), "covers"))
	require.NoError(t, err)

	processor := images.NewProcessor(testLogger())

	// A nil *fakeRecognizer must become a nil interface, not a typed nil.
	if recognizer == nil {
		return NewIngestService(processor, storage, nil, testLogger()), storage
	}
	return NewIngestService(processor, storage, recognizer, testLogger()), storage
}

func testCoverPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadCover(t *testing.T) {
	svc, storage := setupIngestTest(t, nil)

	result, err := svc.UploadCover(context.Background(), testCoverPNG(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.CoverURL, "/covers/"))
	assert.True(t, strings.HasSuffix(result.CoverURL, ".jpg"))
	assert.NotEmpty(t, result.BlurHash)
	assert.Greater(t, result.Bytes, 0)

	key := strings.TrimSuffix(strings.TrimPrefix(result.CoverURL, "/covers/"), ".jpg")
	assert.True(t, storage.Exists(key), "cover must be on disk")
}

func TestUploadCover_BadInput(t *testing.T) {
	svc, _ := setupIngestTest(t, nil)

	_, err := svc.UploadCover(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedImage)

	_, err = svc.UploadCover(context.Background(), make([]byte, images.MaxUploadSize+1))
	assert.ErrorIs(t, err, domainerrors.ErrImageTooLarge)
}

func TestRecognizeCover(t *testing.T) {
	svc, _ := setupIngestTest(t, &fakeRecognizer{
		info: &domain.BookInfo{Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton"},
	})

	draft, err := svc.RecognizeCover(context.Background(), testCoverPNG(t))
	require.NoError(t, err)

	assert.Equal(t, "Dune", draft.Info.Title)
	assert.Equal(t, "Frank Herbert", draft.Info.Author)
	assert.True(t, strings.HasPrefix(draft.CoverURL, "/covers/"))
	assert.NotEmpty(t, draft.CoverBlurhash)
}

func TestRecognizeCover_FailureKeepsCover(t *testing.T) {
	svc, storage := setupIngestTest(t, &fakeRecognizer{err: errors.New("api down")})

	_, err := svc.RecognizeCover(context.Background(), testCoverPNG(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRecognitionFailed)

	// The error tells the client where the already-stored cover lives.
	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	coverURL := details["cover_url"]
	require.NotEmpty(t, coverURL)

	key := strings.TrimSuffix(strings.TrimPrefix(coverURL, "/covers/"), ".jpg")
	assert.True(t, storage.Exists(key), "cover must survive recognition failure")
}

func TestRecognizeCover_NotConfigured(t *testing.T) {
	svc, _ := setupIngestTest(t, nil)

	_, err := svc.RecognizeCover(context.Background(), testCoverPNG(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRecognitionFailed)
}
