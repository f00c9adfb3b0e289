package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{"title": "Source Book"})

	resp := ts.api.Post("/api/v1/quotes", map[string]any{
		"content": "A memorable line.",
		"book_id": book.ID,
		"page":    42,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var quoteEnvelope testEnvelope[QuoteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &quoteEnvelope))
	quote := quoteEnvelope.Data
	assert.Equal(t, "Source Book", quote.BookTitle, "title snapshot taken at link time")

	resp = ts.api.Patch("/api/v1/quotes/"+quote.ID, map[string]any{
		"content": "A polished line.",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &quoteEnvelope))
	assert.Equal(t, "A polished line.", quoteEnvelope.Data.Content)

	// Deleting the book clears the link but keeps the snapshot.
	resp = ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/quotes/"+quote.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &quoteEnvelope))
	assert.Empty(t, quoteEnvelope.Data.BookID)
	assert.Equal(t, "Source Book", quoteEnvelope.Data.BookTitle)

	resp = ts.api.Delete("/api/v1/quotes/"+quote.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/quotes/"+quote.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateQuote_Freestanding(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/quotes", map[string]any{
		"content": "No book needed.",
		"author":  "Anonymous",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[QuoteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.BookID)
	assert.Empty(t, envelope.Data.BookTitle)
}

func TestCreateQuote_ForeignBook(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.registerTestUser(t, "owner@example.com")
	otherToken, _ := ts.registerTestUser(t, "other@example.com")

	book := ts.createBook(t, ownerToken, map[string]any{"title": "Private"})

	resp := ts.api.Post("/api/v1/quotes", map[string]any{
		"content": "Stolen context.",
		"book_id": book.ID,
	}, "Authorization: Bearer "+otherToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
