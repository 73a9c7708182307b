// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch retrieves live web evidence.
// Implements: the web search capability (Tavily client and a result cache).
package websearch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// ErrNoAPIKey is returned when a provider is used without credentials.
var ErrNoAPIKey = errors.New("web search API key not configured")

const (
	defaultMaxResults = 5
	maxMaxResults     = 10
)

// Searcher is the web search capability.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (types.WebResponse, error)
}

// ClampResults normalizes a requested result count to 1..10, with 0 or
// less meaning the default of 5.
func ClampResults(n int) int {
	switch {
	case n <= 0:
		return defaultMaxResults
	case n > maxMaxResults:
		return maxMaxResults
	}
	return n
}

// New builds the configured provider wrapped in a result cache. It returns
// ErrNoAPIKey when no key is configured, which callers treat as web search
// being disabled.
func New(cfg types.WebConfig) (Searcher, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "tavily":
	default:
		return nil, fmt.Errorf("unknown web search provider %q", cfg.Provider)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	return NewCached(NewTavily(cfg), cfg.CacheSize)
}
