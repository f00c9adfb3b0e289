// Package recognition calls the external cover recognition API and parses
// its responses into book metadata.
package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
)

// maxResponseSize limits recognition responses; the API returns a short
// text or JSON blob, never megabytes.
const maxResponseSize = 1 * 1024 * 1024

// Recognizer extracts book metadata from a cover image.
type Recognizer interface {
	Recognize(ctx context.Context, imageData []byte) (*domain.BookInfo, error)
}

// Client is the HTTP client for the recognition API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a recognition client. The endpoint must be non-empty;
// callers should not construct a client when recognition is disabled.
func NewClient(endpoint, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Recognize uploads a cover image and returns the metadata the API found.
// The raw response is parsed with ParseBookInfo, so a free-text answer
// still yields a usable title.
func (c *Client) Recognize(ctx context.Context, imageData []byte) (*domain.BookInfo, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "cover.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.ErrRecognitionFailed.WithCause(err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, domainerrors.ErrRecognitionFailed.WithCause(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("recognition API error",
			"status", resp.StatusCode,
			"body_bytes", len(respData),
		)
		return nil, domainerrors.ErrRecognitionFailed.WithCause(fmt.Errorf("status %d", resp.StatusCode))
	}

	info := ParseBookInfo(string(respData))
	c.logger.Debug("recognition response parsed",
		"title", info.Title,
		"structured", info.Author != "" || info.Publisher != "",
	)

	return &info, nil
}

// ParseBookInfo interprets a recognition response. A response that decodes
// as a JSON object is used as-is, even when some fields are missing;
// anything else becomes the title verbatim, trimmed of whitespace.
func ParseBookInfo(text string) domain.BookInfo {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "{") {
		var info domain.BookInfo
		if err := json.Unmarshal([]byte(trimmed), &info); err == nil {
			return info
		}
	}

	return domain.BookInfo{Title: trimmed}
}
