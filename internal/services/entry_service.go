package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

// ErrEmptyEntryText is returned when a submitted entry has no content.
// The check runs before any network call.
var ErrEmptyEntryText = errors.New("entry text is empty")

// Tagger extracts structured tags from entry text.
type Tagger interface {
	ExtractTags(ctx context.Context, text string) (models.TagSet, error)
}

// TagFailurePolicy names what happens when tag extraction fails.
type TagFailurePolicy string

// TagPolicyUseDefaults: a failed extraction yields five empty tag lists and
// the entry is saved anyway. Extraction failure is never fatal to the write
// path.
const TagPolicyUseDefaults TagFailurePolicy = "use-defaults"

// EntryService assembles journal entries: it validates the text, stamps
// identity and creation time, and merges in extracted tags.
type EntryService struct {
	tagger Tagger
	policy TagFailurePolicy
}

// NewEntryService creates an EntryService. A nil tagger means tagging is
// unavailable; entries are assembled with empty tags.
func NewEntryService(tagger Tagger) *EntryService {
	return &EntryService{tagger: tagger, policy: TagPolicyUseDefaults}
}

// FailurePolicy reports the active extraction failure policy.
func (s *EntryService) FailurePolicy() TagFailurePolicy {
	return s.policy
}

// Assemble builds a complete entry record from raw text. It fails only on
// empty/whitespace text; extraction failures degrade to empty tags under
// TagPolicyUseDefaults.
func (s *EntryService) Assemble(ctx context.Context, text, ownerID string) (models.JournalEntry, error) {
	if strings.TrimSpace(text) == "" {
		return models.JournalEntry{}, ErrEmptyEntryText
	}

	entry := models.JournalEntry{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		Text:      text,
		Media:     []models.Media{},
	}

	entry.ApplyTags(s.extractTags(ctx, text))
	return entry, nil
}

func (s *EntryService) extractTags(ctx context.Context, text string) models.TagSet {
	if s.tagger == nil {
		return models.EmptyTagSet()
	}

	tags, err := s.tagger.ExtractTags(ctx, text)
	if err != nil {
		// TagPolicyUseDefaults: log and save the entry untagged
		log.Printf("tag extraction failed, saving entry with empty tags: %v", err)
		return models.EmptyTagSet()
	}
	return tags
}
