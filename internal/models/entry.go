package models

import "time"

// Media kinds an entry can reference. The media field is reserved: it is
// stored and returned but nothing populates it yet.
const (
	MediaKindPhoto = "photo"
	MediaKindVideo = "video"
	MediaKindVoice = "voice"
)

// Media is an attachment reference on a journal entry.
type Media struct {
	Kind string `bson:"kind" json:"kind"`
	URL  string `bson:"url" json:"url"`
}

// TagSet holds the structured tags extracted from an entry's text.
// All five lists are always present together: a failed extraction yields
// five empty lists, never a partial set.
type TagSet struct {
	People        []string `json:"people"`
	Locations     []string `json:"locations"`
	Organizations []string `json:"organizations"`
	Dates         []string `json:"dates"`
	Topics        []string `json:"topics"`
}

// EmptyTagSet returns a TagSet with five empty (non-nil) lists, the safe
// default used when extraction fails or is unavailable.
func EmptyTagSet() TagSet {
	return TagSet{
		People:        []string{},
		Locations:     []string{},
		Organizations: []string{},
		Dates:         []string{},
		Topics:        []string{},
	}
}

// JournalEntry represents one immutable journal record for a user.
// Entries are only ever created or deleted; there is no update flow.
type JournalEntry struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerID   string    `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	Text string `bson:"text" json:"text"`

	People        []string `bson:"people" json:"people"`
	Locations     []string `bson:"locations" json:"locations"`
	Organizations []string `bson:"organizations" json:"organizations"`
	Dates         []string `bson:"dates" json:"dates"`
	Topics        []string `bson:"topics" json:"topics"`

	Media []Media `bson:"media" json:"media"`
}

// ApplyTags copies a TagSet onto the entry.
func (e *JournalEntry) ApplyTags(tags TagSet) {
	e.People = tags.People
	e.Locations = tags.Locations
	e.Organizations = tags.Organizations
	e.Dates = tags.Dates
	e.Topics = tags.Topics
}

// TagLists returns the five tag lists in a fixed order, for search.
func (e *JournalEntry) TagLists() [][]string {
	return [][]string{e.People, e.Locations, e.Organizations, e.Dates, e.Topics}
}
