package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/pookie-backend/internal/models"
	"github.com/AnshRaj112/pookie-backend/internal/repository"
	"github.com/AnshRaj112/pookie-backend/internal/services"
)

var (
	entryRepo    repository.EntryRepository
	entryService *services.EntryService
)

// InitEntryHandlers wires the selected storage backend and the assembler
// into the entry endpoints.
func InitEntryHandlers(repo repository.EntryRepository, svc *services.EntryService) {
	entryRepo = repo
	entryService = svc
}

// requireEntryAuth validates the session and returns the authenticated
// user's ID. Returns ("", false) if not authenticated.
func requireEntryAuth(r *http.Request) (string, bool) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	userID, ok, err := validateSession(token)
	if err != nil || !ok {
		return "", false
	}
	return userID.String(), true
}

type CreateEntryRequest struct {
	Text string `json:"text"`
}

type CreateEntryResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

type GetEntriesResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Entries []models.JournalEntry `json:"entries"`
	Total   int                   `json:"total"`
	HasMore bool                  `json:"has_more"`
}

type DeleteEntryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateEntry creates a new journal entry for the authenticated user.
// Tag extraction runs once per entry; if it fails the entry is still saved
// with empty tags and the request succeeds.
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(CreateEntryResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(CreateEntryResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	entry, err := entryService.Assemble(r.Context(), req.Text, userID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyEntryText) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreateEntryResponse{
				Success: false,
				Message: "Entry text is required",
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(CreateEntryResponse{
			Success: false,
			Message: "Failed to create entry",
		})
		return
	}

	if _, err := entryRepo.Create(r.Context(), entry); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(CreateEntryResponse{
			Success: false,
			Message: "Failed to save entry",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateEntryResponse{
		Success: true,
		Message: "Entry created successfully",
		Entry:   &entry,
	})
}

// GetEntries returns the authenticated user's entries, newest first,
// filtered by the optional search query (?q=) and calendar date
// (?date=YYYY-MM-DD), then paginated with limit/skip.
func GetEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(GetEntriesResponse{
			Success: false,
			Message: "Authentication required",
			Entries: []models.JournalEntry{},
		})
		return
	}

	query := r.URL.Query().Get("q")

	var selectedDate *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(GetEntriesResponse{
				Success: false,
				Message: "Invalid date, expected YYYY-MM-DD",
				Entries: []models.JournalEntry{},
			})
			return
		}
		selectedDate = &parsed
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	skip := 0
	if skipStr := r.URL.Query().Get("skip"); skipStr != "" {
		if parsedSkip, err := strconv.Atoi(skipStr); err == nil && parsedSkip >= 0 {
			skip = parsedSkip
		}
	}

	all, err := entryRepo.List(r.Context(), userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(GetEntriesResponse{
			Success: false,
			Message: "Failed to load entries",
			Entries: []models.JournalEntry{},
		})
		return
	}

	visible := services.VisibleEntries(all, query, selectedDate)
	total := len(visible)

	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}
	page := visible[skip:end]

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetEntriesResponse{
		Success: true,
		Entries: page,
		Total:   total,
		HasMore: end < total,
	})
}

// DeleteEntry removes an entry by id (?id=). Deleting an id that does not
// exist is treated as success so the operation is idempotent.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(DeleteEntryResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(DeleteEntryResponse{
			Success: false,
			Message: "Entry id is required",
		})
		return
	}

	if err := entryRepo.Delete(r.Context(), userID, id); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(DeleteEntryResponse{
			Success: false,
			Message: "Failed to delete entry",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DeleteEntryResponse{
		Success: true,
		Message: "Entry deleted",
	})
}

// ExportEntries downloads the user's full entry collection as a
// pretty-printed JSON file named with today's date.
func ExportEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireEntryAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(DeleteEntryResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	all, err := entryRepo.List(r.Context(), userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(DeleteEntryResponse{
			Success: false,
			Message: "Failed to load entries",
		})
		return
	}

	if len(all) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(DeleteEntryResponse{
			Success: false,
			Message: "No entries to export",
		})
		return
	}

	data, err := services.SerializeEntries(all)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(DeleteEntryResponse{
			Success: false,
			Message: "Failed to serialize entries",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFilename(time.Now())))
	w.Write(data)
}
