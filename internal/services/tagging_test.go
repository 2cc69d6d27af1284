package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(endpoint string) *TagExtractor {
	return &TagExtractor{
		apiKey:   "test-key",
		model:    "test-model",
		endpoint: endpoint,
		client:   http.DefaultClient,
	}
}

func anthropicReply(text string) string {
	reply := map[string]interface{}{
		"content": []map[string]string{
			{"type": "text", "text": text},
		},
	}
	b, _ := json.Marshal(reply)
	return string(b)
}

func TestExtractTagsParsesDeclaredShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Write([]byte(anthropicReply(`{"people":["Priya"],"locations":["Paris"],"organizations":["Acme"],"dates":["June 3"],"topics":["launch"]}`)))
	}))
	defer srv.Close()

	tags, err := newTestExtractor(srv.URL).ExtractTags(context.Background(), "Lunch with Priya in Paris on June 3 about the Acme launch")
	require.NoError(t, err)

	assert.Equal(t, []string{"Priya"}, tags.People)
	assert.Equal(t, []string{"Paris"}, tags.Locations)
	assert.Equal(t, []string{"Acme"}, tags.Organizations)
	assert.Equal(t, []string{"June 3"}, tags.Dates)
	assert.Equal(t, []string{"launch"}, tags.Topics)
}

func TestExtractTagsServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestExtractor(srv.URL).ExtractTags(context.Background(), "some text")
	assert.Error(t, err)
}

func TestExtractTagsNetworkErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestExtractor(srv.URL).ExtractTags(context.Background(), "some text")
	assert.Error(t, err)
}

func TestParseTagResponseStripsCodeFences(t *testing.T) {
	tags, err := parseTagResponse("```json\n{\"people\":[\"Ana\"],\"locations\":[],\"organizations\":[],\"dates\":[],\"topics\":[]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, tags.People)
	assert.Empty(t, tags.Locations)
}

func TestParseTagResponseInvalidJSONFails(t *testing.T) {
	_, err := parseTagResponse("sorry, I cannot help with that")
	assert.Error(t, err)
}

func TestParseTagResponseFillsMissingLists(t *testing.T) {
	tags, err := parseTagResponse(`{"people":["Bo"]}`)
	require.NoError(t, err)

	// the contract is five lists, always present
	assert.NotNil(t, tags.Locations)
	assert.NotNil(t, tags.Organizations)
	assert.NotNil(t, tags.Dates)
	assert.NotNil(t, tags.Topics)
}

func TestNewTagExtractorRequiresAPIKey(t *testing.T) {
	_, err := NewTagExtractor("", "")
	assert.Error(t, err)
}
