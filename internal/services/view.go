package services

import (
	"strings"
	"time"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

// VisibleEntries derives the visible subset of entries for a search query
// and/or a selected calendar date. Pure function: the input slice is never
// mutated and relative order (newest first, from the repository) is
// preserved. Empty query and nil date mean no filtering; both filters
// compose with AND.
func VisibleEntries(all []models.JournalEntry, query string, selectedDate *time.Time) []models.JournalEntry {
	result := make([]models.JournalEntry, 0, len(all))

	q := strings.ToLower(strings.TrimSpace(query))
	for _, entry := range all {
		if selectedDate != nil && !sameCalendarDay(entry.CreatedAt, *selectedDate) {
			continue
		}
		if q != "" && !entryMatches(&entry, q) {
			continue
		}
		result = append(result, entry)
	}

	return result
}

// sameCalendarDay compares calendar dates, not timestamps. The entry's
// timestamp is converted into the selected date's location first.
func sameCalendarDay(t time.Time, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// entryMatches reports whether the lowercased query appears in the entry
// text or in any element of the five tag lists.
func entryMatches(entry *models.JournalEntry, q string) bool {
	if strings.Contains(strings.ToLower(entry.Text), q) {
		return true
	}
	for _, list := range entry.TagLists() {
		for _, tag := range list {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
	}
	return false
}
