package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

// SerializeEntries renders the full entry sequence as pretty-printed JSON
// for download. Deterministic for the same input order.
func SerializeEntries(entries []models.JournalEntry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// ExportFilename names the export artifact with the given day's date,
// e.g. pookie_journal_2024-06-03.json.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("pookie_journal_%s.json", now.Format("2006-01-02"))
}
