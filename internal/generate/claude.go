// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/content-engine/internal/httputil"
	"github.com/pdiddy/content-engine/pkg/types"
)

var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const (
	defaultModel   = "claude-sonnet-4-5-20250929"
	defaultTimeout = 120 * time.Second
)

// ClaudeBackend calls the Claude Messages API for idea generation,
// article expansion, and similarity verdicts.
type ClaudeBackend struct {
	cfg    types.AIConfig
	client *http.Client
}

// NewClaudeBackend builds a backend from config, applying defaults for
// model and timeout.
func NewClaudeBackend(cfg types.AIConfig) *ClaudeBackend {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &ClaudeBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// GenerateIdeas requests count topic ideas and normalizes the response.
// A higher temperature gives more varied topics.
func (c *ClaudeBackend) GenerateIdeas(ctx context.Context, count int, category string) ([]IdeaCandidate, error) {
	prompt, err := renderPrompt(ideasPromptTmpl, struct {
		Count    int
		Category string
	}{count, category})
	if err != nil {
		return nil, err
	}

	text, err := c.complete(ctx, prompt, 0.8)
	if err != nil {
		return nil, err
	}

	ideas, err := decodeIdeas([]byte(text))
	if err != nil {
		return nil, err
	}
	if len(ideas) > count {
		ideas = ideas[:count]
	}
	return ideas, nil
}

// GenerateArticle expands one topic into a titled Markdown article.
func (c *ClaudeBackend) GenerateArticle(ctx context.Context, topic, description string, targetWords int) (*ArticleDraft, error) {
	prompt, err := renderPrompt(articlePromptTmpl, struct {
		Topic       string
		Description string
		TargetWords int
	}{topic, description, targetWords})
	if err != nil {
		return nil, err
	}

	text, err := c.complete(ctx, prompt, 0.7)
	if err != nil {
		return nil, err
	}

	var draft ArticleDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, fmt.Errorf("parsing article response: %w", err)
	}
	if draft.Title == "" || draft.Body == "" {
		return nil, fmt.Errorf("article response missing title or content")
	}
	return &draft, nil
}

// CheckSimilarity asks for a duplicate-topic verdict against the
// existing topics. An empty existing set is never similar and skips the
// API call entirely.
func (c *ClaudeBackend) CheckSimilarity(ctx context.Context, topic string, existing []string) (SimilarityVerdict, error) {
	if len(existing) == 0 {
		return SimilarityVerdict{}, nil
	}

	prompt, err := renderPrompt(similarityPromptTmpl, struct {
		Topic    string
		Existing []string
	}{topic, existing})
	if err != nil {
		return SimilarityVerdict{}, err
	}

	// Low temperature for consistent verdicts.
	text, err := c.complete(ctx, prompt, 0.3)
	if err != nil {
		return SimilarityVerdict{}, err
	}

	var verdict SimilarityVerdict
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return SimilarityVerdict{}, fmt.Errorf("parsing similarity response: %w", err)
	}
	return verdict, nil
}

// complete sends one prompt to the Messages API and returns the text of
// the first text content block. Rate-limited and overloaded responses
// are retried with backoff.
func (c *ClaudeBackend) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := claudeRequest{
		Model:       c.cfg.Model,
		MaxTokens:   4096,
		Temperature: temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}

// ideaWrapperKeys are the object keys the model is known to wrap the
// ideas array in despite the bare-array instruction.
var ideaWrapperKeys = []string{"ideas", "topics", "data"}

// decodeIdeas normalizes the ideas response. The contract asks for a
// bare JSON array, but models sometimes wrap it in a named field; try
// the known wrappers before giving up.
func decodeIdeas(data []byte) ([]IdeaCandidate, error) {
	var ideas []IdeaCandidate
	if err := json.Unmarshal(data, &ideas); err == nil {
		return ideas, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing ideas response: %w", err)
	}

	for _, key := range ideaWrapperKeys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &ideas); err != nil {
			return nil, fmt.Errorf("parsing ideas under %q: %w", key, err)
		}
		return ideas, nil
	}

	return nil, fmt.Errorf("ideas response has no recognizable array (keys tried: %v)", ideaWrapperKeys)
}
