// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsdesk/pkg/types"
)

func fakeTavily(t *testing.T, handler http.HandlerFunc) *TavilyClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := tavilyAPIBase
	tavilyAPIBase = ts.URL
	t.Cleanup(func() { tavilyAPIBase = old })

	return &TavilyClient{Client: ts.Client(), APIKey: "tvly-test", UserAgent: "newsdesk-test"}
}

func TestTavilySearch(t *testing.T) {
	var got tavilyRequest
	c := fakeTavily(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.Equal(t, "newsdesk-test", r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"answer": "Reservoirs are low.",
			"results": [
				{"title": "Reservoir report", "url": "https://www.example.org/r", "content": "Levels fell.", "score": 0.93, "published_date": "2024-03-05"},
				{"title": "", "url": "", "content": "Undated note."}
			]
		}`))
	})

	resp, err := c.Search(context.Background(), "valley reservoirs", 3)
	require.NoError(t, err)

	assert.Equal(t, "valley reservoirs", got.Query)
	assert.Equal(t, 3, got.MaxResults)
	assert.Equal(t, "advanced", got.SearchDepth)
	assert.True(t, got.IncludeAnswer)
	assert.False(t, got.IncludeRawContent)

	assert.Equal(t, "Reservoirs are low.", resp.Answer)
	require.Len(t, resp.Results, 2)
	require.NotNil(t, resp.Results[0].Score)
	assert.InDelta(t, 0.93, *resp.Results[0].Score, 1e-9)
	assert.Nil(t, resp.Results[1].Score)

	rec := types.NewWebRecord(resp.Results[0])
	assert.Equal(t, "example.org", rec.Origin)
	assert.Equal(t, "2024-03-05", rec.Date)

	rec = types.NewWebRecord(resp.Results[1])
	assert.Equal(t, "Web", rec.Origin)
	assert.Equal(t, "Unknown", rec.Title)
	assert.Equal(t, "N/A", rec.URL)
}

func TestTavilyErrors(t *testing.T) {
	c := fakeTavily(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid key"}`))
	})

	_, err := c.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")

	_, err = c.Search(context.Background(), "   ", 5)
	assert.Error(t, err)

	c.APIKey = ""
	_, err = c.Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestClampResults(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, 5}, {0, 5}, {1, 1}, {7, 7}, {10, 10}, {50, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampResults(tt.in), "in=%d", tt.in)
	}
}

type countingSearcher struct {
	calls int32
	err   error
}

func (s *countingSearcher) Search(_ context.Context, query string, _ int) (types.WebResponse, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return types.WebResponse{}, s.err
	}
	return types.WebResponse{Answer: query}, nil
}

func TestCached(t *testing.T) {
	next := &countingSearcher{}
	c, err := NewCached(next, 2)
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = c.Search(ctx, "Valley  Drought", 5)
	resp, err := c.Search(ctx, "valley drought", 0)
	require.NoError(t, err)
	assert.Equal(t, "Valley  Drought", resp.Answer, "normalized query and default count share an entry")
	assert.Equal(t, int32(1), atomic.LoadInt32(&next.calls))

	_, _ = c.Search(ctx, "valley drought", 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&next.calls))

	_, _ = c.Search(ctx, "third", 5)
	assert.Equal(t, 2, c.Len(), "least recently used entry is evicted")
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	next := &countingSearcher{err: errors.New("boom")}
	c, err := NewCached(next, 4)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Search(context.Background(), "q", 5)
		assert.Error(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&next.calls))
	assert.Zero(t, c.Len())
}

func TestNew(t *testing.T) {
	_, err := New(types.WebConfig{Provider: "tavily"})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = New(types.WebConfig{Provider: "bing", APIKey: "k"})
	assert.Error(t, err)

	s, err := New(types.WebConfig{Provider: "tavily", APIKey: "k", CacheSize: 8})
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, s)
}
