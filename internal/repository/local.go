package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

// LocalRepository persists the whole entry collection as one JSON file,
// the single-device variant of the store. There is one anonymous scope:
// ownerID is accepted for interface compatibility and ignored.
//
// Ordering is maintained at insertion time (new entries are prepended),
// so List returns the file's order as-is.
type LocalRepository struct {
	path string
	mu   sync.Mutex // protects concurrent writes to the file
}

func NewLocalRepository(path string) (*LocalRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &LocalRepository{path: path}, nil
}

func (r *LocalRepository) Create(ctx context.Context, entry models.JournalEntry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return "", err
	}

	entries = append([]models.JournalEntry{entry}, entries...)
	if err := r.save(entries); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (r *LocalRepository) List(ctx context.Context, ownerID string) ([]models.JournalEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Delete removes the entry with the given id. Missing ids are a no-op.
func (r *LocalRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}

	kept := entries[:0]
	removed := false
	for _, e := range entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	return r.save(kept)
}

func (r *LocalRepository) load() ([]models.JournalEntry, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.JournalEntry{}, nil
		}
		return nil, err
	}

	entries := make([]models.JournalEntry, 0)
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// save writes the collection atomically: temp file first, then rename, so a
// crash leaves either the old file or the new one, never a corrupt one.
func (r *LocalRepository) save(entries []models.JournalEntry) error {
	bytes, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tempPath := r.path + ".tmp"
	if err := os.WriteFile(tempPath, bytes, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, r.path)
}
