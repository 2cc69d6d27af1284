package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/pookie-backend/internal/models"
	"github.com/AnshRaj112/pookie-backend/internal/repository"
	"github.com/AnshRaj112/pookie-backend/internal/services"
)

const testToken = "test-session-token"

var testUserID = uuid.MustParse("6f1e1e52-7a8a-4f2a-9f2e-3b7a4cfb0a11")

type fakeTagger struct {
	tags models.TagSet
	err  error
}

func (f *fakeTagger) ExtractTags(ctx context.Context, text string) (models.TagSet, error) {
	return f.tags, f.err
}

// setupEntryRouter wires the entry endpoints against a local repository in a
// temp dir and a stubbed session, so no Mongo/Redis is needed.
func setupEntryRouter(t *testing.T, tagger services.Tagger) (*chi.Mux, *repository.LocalRepository) {
	t.Helper()

	repo, err := repository.NewLocalRepository(filepath.Join(t.TempDir(), "entries.json"))
	require.NoError(t, err)
	InitEntryHandlers(repo, services.NewEntryService(tagger))

	prev := validateSession
	validateSession = func(token string) (uuid.UUID, bool, error) {
		if token == testToken {
			return testUserID, true, nil
		}
		return uuid.Nil, false, nil
	}
	t.Cleanup(func() { validateSession = prev })

	r := chi.NewRouter()
	r.Post("/api/entries", CreateEntry)
	r.Get("/api/entries", GetEntries)
	r.Delete("/api/entries", DeleteEntry)
	r.Get("/api/entries/export", ExportEntries)
	return r, repo
}

func doJSON(t *testing.T, r http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateEntryRequiresAuth(t *testing.T) {
	r, _ := setupEntryRouter(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/entries", "", CreateEntryRequest{Text: "hello"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEntryRejectsEmptyText(t *testing.T) {
	tagger := &fakeTagger{}
	r, _ := setupEntryRouter(t, tagger)

	w := doJSON(t, r, http.MethodPost, "/api/entries", testToken, CreateEntryRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp CreateEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestCreateEntryStoresExtractedTags(t *testing.T) {
	tagger := &fakeTagger{tags: models.TagSet{
		People:        []string{"Priya"},
		Locations:     []string{"Paris"},
		Organizations: []string{"Acme"},
		Dates:         []string{"June 3"},
		Topics:        []string{"launch"},
	}}
	r, _ := setupEntryRouter(t, tagger)

	text := "Lunch with Priya in Paris on June 3 about the Acme launch"
	w := doJSON(t, r, http.MethodPost, "/api/entries", testToken, CreateEntryRequest{Text: text})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, text, resp.Entry.Text)
	assert.Equal(t, []string{"Priya"}, resp.Entry.People)
	assert.Equal(t, []string{"Paris"}, resp.Entry.Locations)
	assert.Equal(t, []string{"Acme"}, resp.Entry.Organizations)
	assert.Equal(t, []string{"June 3"}, resp.Entry.Dates)
	assert.Equal(t, []string{"launch"}, resp.Entry.Topics)
}

func TestCreateEntrySucceedsWhenExtractionFails(t *testing.T) {
	tagger := &fakeTagger{err: assert.AnError}
	r, _ := setupEntryRouter(t, tagger)

	w := doJSON(t, r, http.MethodPost, "/api/entries", testToken, CreateEntryRequest{Text: "still worth saving"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, []string{}, resp.Entry.People)
	assert.Equal(t, []string{}, resp.Entry.Locations)
	assert.Equal(t, []string{}, resp.Entry.Organizations)
	assert.Equal(t, []string{}, resp.Entry.Dates)
	assert.Equal(t, []string{}, resp.Entry.Topics)
	assert.NotEmpty(t, resp.Entry.ID)
}

func TestGetEntriesFiltersByQueryAndDate(t *testing.T) {
	r, repo := setupEntryRouter(t, nil)
	ctx := context.Background()

	older := models.JournalEntry{
		ID:        "e-old",
		OwnerID:   testUserID.String(),
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Text:      "a quiet day at home",
		Media:     []models.Media{},
	}
	older.ApplyTags(models.EmptyTagSet())
	newer := models.JournalEntry{
		ID:        "e-new",
		OwnerID:   testUserID.String(),
		CreatedAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		Text:      "coffee with Priya",
		Media:     []models.Media{},
	}
	newer.ApplyTags(models.EmptyTagSet())

	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	// no filters: newest first
	w := doJSON(t, r, http.MethodGet, "/api/entries", testToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp GetEntriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "e-new", resp.Entries[0].ID)
	assert.Equal(t, 2, resp.Total)

	// calendar date filter
	w = doJSON(t, r, http.MethodGet, "/api/entries?date=2024-01-01", testToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = GetEntriesResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "e-old", resp.Entries[0].ID)

	// search query filter
	w = doJSON(t, r, http.MethodGet, "/api/entries?q=priya", testToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = GetEntriesResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "e-new", resp.Entries[0].ID)

	// malformed date
	w = doJSON(t, r, http.MethodGet, "/api/entries?date=January-1st", testToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEntryRemovesAndIsIdempotent(t *testing.T) {
	tagger := &fakeTagger{tags: models.EmptyTagSet()}
	r, repo := setupEntryRouter(t, tagger)

	w := doJSON(t, r, http.MethodPost, "/api/entries", testToken, CreateEntryRequest{Text: "short lived"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created CreateEntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotNil(t, created.Entry)

	w = doJSON(t, r, http.MethodDelete, "/api/entries?id="+created.Entry.ID, testToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	entries, err := repo.List(context.Background(), testUserID.String())
	require.NoError(t, err)
	assert.Empty(t, entries)

	// deleting again (or any unknown id) still succeeds
	w = doJSON(t, r, http.MethodDelete, "/api/entries?id="+created.Entry.ID, testToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// missing id parameter is a validation error
	w = doJSON(t, r, http.MethodDelete, "/api/entries", testToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEntries(t *testing.T) {
	tagger := &fakeTagger{tags: models.EmptyTagSet()}
	r, _ := setupEntryRouter(t, tagger)

	// nothing to export yet
	w := doJSON(t, r, http.MethodGet, "/api/entries/export", testToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/entries", testToken, CreateEntryRequest{Text: "export me"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/entries/export", testToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pookie_journal_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".json")

	var exported []models.JournalEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "export me", exported[0].Text)
}
