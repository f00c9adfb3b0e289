package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createBook(t *testing.T, token string, body map[string]any) BookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/books", body, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{
		"title":  "The Dispossessed",
		"author": "Ursula K. Le Guin",
		"rating": 5,
	})

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "unread", book.Status, "status defaults to unread")
	assert.Equal(t, 5, book.Rating)
}

func TestCreateBook_InvalidRating(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":  "X",
		"rating": 6,
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListBooks_Filtered(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	ts.createBook(t, token, map[string]any{"title": "Alpha"})
	ts.createBook(t, token, map[string]any{"title": "Alphabet"})
	ts.createBook(t, token, map[string]any{"title": "Beta"})

	resp := ts.api.Get("/api/v1/books?title=alpha", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Books, 2)

	resp = ts.api.Get("/api/v1/books", "Authorization: Bearer "+token)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Books, 3)
}

func TestUpdateBook_Partial(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{"title": "Original", "author": "Someone"})

	resp := ts.api.Patch("/api/v1/books/"+book.ID, map[string]any{
		"status": "completed",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "completed", envelope.Data.Status)
	assert.Equal(t, "Original", envelope.Data.Title, "unset fields stay put")
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{"title": "Doomed"})

	resp := ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+book.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBookOwnership_CrossUserLooksMissing(t *testing.T) {
	ts := setupTestServer(t)
	ownerToken, _ := ts.registerTestUser(t, "owner@example.com")
	otherToken, _ := ts.registerTestUser(t, "other@example.com")

	book := ts.createBook(t, ownerToken, map[string]any{"title": "Private"})

	resp := ts.api.Get("/api/v1/books/"+book.ID, "Authorization: Bearer "+otherToken)
	assert.Equal(t, http.StatusNotFound, resp.Code, "foreign books look missing, not forbidden")

	resp = ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: Bearer "+otherToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Still there for the owner.
	resp = ts.api.Get("/api/v1/books/"+book.ID, "Authorization: Bearer "+ownerToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBooksByFavoriteAuthors(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	ts.createBook(t, token, map[string]any{"title": "One", "author": "Ursula K. Le Guin"})
	ts.createBook(t, token, map[string]any{"title": "Two", "author": "Gene Wolfe"})

	resp := ts.api.Get("/api/v1/books/by-favorite-authors", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Books, "no favorites, no matches")

	resp = ts.api.Post("/api/v1/favorite-authors", map[string]any{
		"name": "Le Guin",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/by-favorite-authors", "Authorization: Bearer "+token)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Books, 1)
	assert.Equal(t, "One", envelope.Data.Books[0].Title)
}

func TestBookTags(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reader@example.com")

	book := ts.createBook(t, token, map[string]any{"title": "Tagged"})

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "sf"}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	var tagEnvelope testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tagEnvelope))
	tagID := tagEnvelope.Data.ID

	// Attach one real tag and one bogus one; outcomes are per-tag.
	resp = ts.api.Post("/api/v1/books/"+book.ID+"/tags", map[string]any{
		"tag_ids": []string{tagID, "tag-bogus"},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var assignEnvelope testEnvelope[AssignBookTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &assignEnvelope))
	require.Len(t, assignEnvelope.Data.Results, 2)
	assert.True(t, assignEnvelope.Data.Results[0].Attached)
	assert.False(t, assignEnvelope.Data.Results[1].Attached)
	assert.NotEmpty(t, assignEnvelope.Data.Results[1].Error)

	resp = ts.api.Get("/api/v1/books/"+book.ID+"/tags", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	var listEnvelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listEnvelope))
	require.Len(t, listEnvelope.Data.Tags, 1)

	resp = ts.api.Delete("/api/v1/books/"+book.ID+"/tags/"+tagID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+book.ID+"/tags", "Authorization: Bearer "+token)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listEnvelope))
	assert.Empty(t, listEnvelope.Data.Tags)
}
