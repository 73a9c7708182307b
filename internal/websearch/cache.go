// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// Cached wraps a Searcher with an in-memory LRU of recent responses keyed
// by normalized query and result count. Errors are not cached.
type Cached struct {
	next  Searcher
	cache *lru.Cache[string, types.WebResponse]
}

// NewCached wraps next with a cache holding size responses.
func NewCached(next Searcher, size int) (*Cached, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, types.WebResponse](size)
	if err != nil {
		return nil, fmt.Errorf("creating web search cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Search returns a cached response when one exists, otherwise delegates.
func (c *Cached) Search(ctx context.Context, query string, maxResults int) (types.WebResponse, error) {
	key := cacheKey(query, maxResults)
	if resp, ok := c.cache.Get(key); ok {
		return resp, nil
	}
	resp, err := c.next.Search(ctx, query, maxResults)
	if err != nil {
		return resp, err
	}
	c.cache.Add(key, resp)
	return resp, nil
}

// Len returns the number of cached responses.
func (c *Cached) Len() int { return c.cache.Len() }

func cacheKey(query string, maxResults int) string {
	return fmt.Sprintf("%d|%s", ClampResults(maxResults), strings.Join(strings.Fields(strings.ToLower(query)), " "))
}
