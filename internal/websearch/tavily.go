// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/newsdesk/internal/httputil"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// tavilyAPIBase is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

// TavilyClient queries the Tavily search API.
type TavilyClient struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
}

// NewTavily builds a client from the web configuration.
func NewTavily(cfg types.WebConfig) *TavilyClient {
	return &TavilyClient{
		Client:    &http.Client{Timeout: cfg.Timeout},
		APIKey:    cfg.APIKey,
		UserAgent: cfg.UserAgent,
	}
}

type tavilyRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		Content       string   `json:"content"`
		Score         *float64 `json:"score"`
		PublishedDate string   `json:"published_date"`
	} `json:"results"`
}

// Search runs an advanced-depth Tavily search.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) (types.WebResponse, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return types.WebResponse{}, ErrNoAPIKey
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return types.WebResponse{}, fmt.Errorf("empty web search query")
	}

	body, err := json.Marshal(tavilyRequest{
		Query:         query,
		MaxResults:    ClampResults(maxResults),
		SearchDepth:   "advanced",
		IncludeAnswer: true,
	})
	if err != nil {
		return types.WebResponse{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(body))
	if err != nil {
		return types.WebResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return types.WebResponse{}, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.WebResponse{}, fmt.Errorf("Tavily API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return types.WebResponse{}, fmt.Errorf("parsing Tavily response: %w", err)
	}

	out := types.WebResponse{Answer: tr.Answer, Results: make([]types.WebResult, 0, len(tr.Results))}
	for _, r := range tr.Results {
		out.Results = append(out.Results, types.WebResult{
			Title:         r.Title,
			URL:           r.URL,
			PublishedDate: r.PublishedDate,
			Content:       r.Content,
			Score:         r.Score,
		})
	}
	return out, nil
}
