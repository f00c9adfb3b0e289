package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/ingest/cover",
		bytes.NewReader(testCoverPNG(t)),
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[UploadCoverResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, strings.HasPrefix(envelope.Data.CoverURL, "/covers/"))
	assert.NotEmpty(t, envelope.Data.BlurHash)
	assert.Greater(t, envelope.Data.Bytes, 0)

	// The stored cover is served back through the static route.
	req, err := http.NewRequest(http.MethodGet, envelope.Data.CoverURL, nil)
	require.NoError(t, err)
	rec := newRecorder()
	ts.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
}

func TestUploadCover_NotAnImage(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/ingest/cover",
		bytes.NewReader([]byte("not an image")),
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "UNSUPPORTED_IMAGE", envelope.Code)
}

func TestRecognizeCover_NotConfigured(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	// The test server runs without a recognition endpoint; the cover is
	// still stored and the error says where it lives.
	resp := ts.api.Post("/api/v1/ingest/recognize",
		bytes.NewReader(testCoverPNG(t)),
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "RECOGNITION_FAILED", envelope.Code)
}
