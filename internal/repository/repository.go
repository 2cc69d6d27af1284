// Package repository persists journal entries behind a single interface so
// the rest of the pipeline does not fork per storage backend. Two
// implementations exist: an owner-scoped MongoDB collection (cloud variant)
// and a single-file JSON blob (local, single-device variant).
package repository

import (
	"context"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

// EntryRepository is the persistence boundary for journal entries.
// Entries are immutable: they are created and deleted, never updated.
type EntryRepository interface {
	// Create persists a new entry and returns its id.
	Create(ctx context.Context, entry models.JournalEntry) (string, error)

	// List returns all entries for the owner, newest first by created_at.
	List(ctx context.Context, ownerID string) ([]models.JournalEntry, error)

	// Delete removes the entry with the given id. Deleting an id that does
	// not exist is a no-op success, not an error.
	Delete(ctx context.Context, ownerID, id string) error
}
