package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AnshRaj112/pookie-backend/internal/models"
)

const (
	anthropicAPI     = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultTagModel  = "claude-sonnet-4-20250514"
)

// TagExtractor extracts structured tags from journal entry text via the
// Anthropic API. Exactly one request per entry: no retries, no caching,
// no batching.
type TagExtractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewTagExtractor creates a TagExtractor. Returns an error when no API key
// is configured; callers treat that as "tagging unavailable", not fatal.
func NewTagExtractor(apiKey, model string) (*TagExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key not set")
	}
	if model == "" {
		model = defaultTagModel
	}

	return &TagExtractor{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicAPI,
		client:   http.DefaultClient,
	}, nil
}

// ExtractTags sends the entry text for analysis and returns the extracted
// TagSet. Any failure (network, status, schema) is returned as an error;
// the caller decides the degradation policy.
func (t *TagExtractor) ExtractTags(ctx context.Context, text string) (models.TagSet, error) {
	resp, err := t.callAPI(ctx, buildTagPrompt(text))
	if err != nil {
		return models.TagSet{}, fmt.Errorf("api call: %w", err)
	}

	return parseTagResponse(resp)
}

func buildTagPrompt(text string) string {
	var sb strings.Builder

	sb.WriteString("You analyze personal journal entries and extract structured tags. Return JSON only.\n\n")
	sb.WriteString("Journal entry:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(`Return a JSON object with this exact structure:
{
  "people": ["names of people mentioned"],
  "locations": ["places mentioned"],
  "organizations": ["companies or organizations mentioned"],
  "dates": ["dates or times mentioned, as written"],
  "topics": ["short topic keywords"]
}

Rules:
- Every field must be present, as an array of strings
- Use empty arrays for categories with nothing to extract
- Keep values as they appear in the entry; do not normalize or deduplicate

Return ONLY the JSON, no other text.`)

	return sb.String()
}

type tagAPIRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []tagAPIMessage `json:"messages"`
}

type tagAPIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tagAPIResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (t *TagExtractor) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := tagAPIRequest{
		Model:     t.model,
		MaxTokens: 1024,
		Messages: []tagAPIMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", t.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp tagAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return apiResp.Content[0].Text, nil
}

// parseTagResponse validates the model output against the declared TagSet
// shape. Markdown code fences are stripped first; anything that still fails
// to parse counts as an extraction failure.
func parseTagResponse(resp string) (models.TagSet, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var tags models.TagSet
	if err := json.Unmarshal([]byte(resp), &tags); err != nil {
		return models.TagSet{}, fmt.Errorf("parse json: %w (response: %s)", err, resp)
	}

	// json leaves absent arrays nil; the contract is five lists, always
	if tags.People == nil {
		tags.People = []string{}
	}
	if tags.Locations == nil {
		tags.Locations = []string{}
	}
	if tags.Organizations == nil {
		tags.Organizations = []string{}
	}
	if tags.Dates == nil {
		tags.Dates = []string{}
	}
	if tags.Topics == nil {
		tags.Topics = []string{}
	}

	return tags, nil
}
