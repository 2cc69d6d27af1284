package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

type stubTagger struct {
	tags  models.TagSet
	err   error
	calls int
}

func (s *stubTagger) ExtractTags(ctx context.Context, text string) (models.TagSet, error) {
	s.calls++
	return s.tags, s.err
}

func TestAssembleMergesExtractedTags(t *testing.T) {
	tagger := &stubTagger{tags: models.TagSet{
		People:        []string{"Priya"},
		Locations:     []string{"Paris"},
		Organizations: []string{"Acme"},
		Dates:         []string{"June 3"},
		Topics:        []string{"launch"},
	}}
	svc := NewEntryService(tagger)

	text := "Lunch with Priya in Paris on June 3 about the Acme launch"
	entry, err := svc.Assemble(context.Background(), text, "user-1")
	require.NoError(t, err)

	assert.Equal(t, text, entry.Text)
	assert.Equal(t, "user-1", entry.OwnerID)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, []string{"Priya"}, entry.People)
	assert.Equal(t, []string{"Paris"}, entry.Locations)
	assert.Equal(t, []string{"Acme"}, entry.Organizations)
	assert.Equal(t, []string{"June 3"}, entry.Dates)
	assert.Equal(t, []string{"launch"}, entry.Topics)
	assert.Equal(t, []models.Media{}, entry.Media)
	assert.Equal(t, 1, tagger.calls)
}

func TestAssembleExtractionFailureUsesDefaults(t *testing.T) {
	tagger := &stubTagger{err: errors.New("service unavailable")}
	svc := NewEntryService(tagger)

	entry, err := svc.Assemble(context.Background(), "a day worth keeping", "user-1")
	require.NoError(t, err, "extraction failure must never block the save")

	assert.Equal(t, "a day worth keeping", entry.Text)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	// all five lists empty, never partial
	assert.Equal(t, []string{}, entry.People)
	assert.Equal(t, []string{}, entry.Locations)
	assert.Equal(t, []string{}, entry.Organizations)
	assert.Equal(t, []string{}, entry.Dates)
	assert.Equal(t, []string{}, entry.Topics)
}

func TestAssembleNilTaggerUsesDefaults(t *testing.T) {
	svc := NewEntryService(nil)

	entry, err := svc.Assemble(context.Background(), "untagged day", "")
	require.NoError(t, err)
	assert.Equal(t, models.EmptyTagSet(), models.TagSet{
		People:        entry.People,
		Locations:     entry.Locations,
		Organizations: entry.Organizations,
		Dates:         entry.Dates,
		Topics:        entry.Topics,
	})
}

func TestAssembleRejectsEmptyText(t *testing.T) {
	tagger := &stubTagger{}
	svc := NewEntryService(tagger)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := svc.Assemble(context.Background(), text, "user-1")
		assert.ErrorIs(t, err, ErrEmptyEntryText, "text %q", text)
	}
	// validation runs before any extraction call
	assert.Equal(t, 0, tagger.calls)
}

func TestAssembleGeneratesUniqueIDs(t *testing.T) {
	svc := NewEntryService(nil)

	first, err := svc.Assemble(context.Background(), "one", "u")
	require.NoError(t, err)
	second, err := svc.Assemble(context.Background(), "two", "u")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestFailurePolicyIsExplicit(t *testing.T) {
	svc := NewEntryService(nil)
	assert.Equal(t, TagPolicyUseDefaults, svc.FailurePolicy())
}
