// Package knowledge delegates semantic search over the coaching knowledge
// base to the embedding/RAG service, which owns the vectors and the
// similarity query.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Match is one knowledge-base chunk returned by the search service.
type Match struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// Searcher is the capability the search_knowledge tool depends on.
type Searcher interface {
	Search(ctx context.Context, query string, matchCount int) ([]Match, error)
}

// Client calls the semantic-search service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for the given search endpoint.
func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	MatchCount int    `json:"match_count"`
}

type searchResponse struct {
	Matches []Match `json:"matches"`
}

// Search runs one semantic-search query. Exactly one delegated call is made
// per invocation; failures surface to the caller untried.
func (c *Client) Search(ctx context.Context, query string, matchCount int) ([]Match, error) {
	body, err := json.Marshal(searchRequest{Query: query, MatchCount: matchCount})
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Search: search service returned %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("Search: decode response: %w", err)
	}
	return parsed.Matches, nil
}
