// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/pdiddy/newsdesk/internal/llm"
	"github.com/pdiddy/newsdesk/pkg/types"
)

func cand(title, origin, date, url string, score float64) types.Candidate {
	return types.Candidate{
		Text: title + " excerpt text.",
		Metadata: map[string]any{
			"title":  title,
			"source": origin,
			"date":   date,
			"url":    url,
		},
		Score: types.Float(score),
	}
}

type archiveCall struct {
	query string
	k     int
}

// fakeArchive returns byQuery[query] when present, else fallback.
type fakeArchive struct {
	mu       sync.Mutex
	byQuery  map[string][]types.Candidate
	fallback []types.Candidate
	err      error
	calls    []archiveCall
}

func (a *fakeArchive) Search(_ context.Context, query string, k int) ([]types.Candidate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, archiveCall{query, k})
	if a.err != nil {
		return nil, a.err
	}
	if c, ok := a.byQuery[query]; ok {
		return c, nil
	}
	return a.fallback, nil
}

type fakeWeb struct {
	mu    sync.Mutex
	resp  types.WebResponse
	err   error
	calls int
}

func (w *fakeWeb) Search(_ context.Context, _ string, _ int) (types.WebResponse, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	return w.resp, w.err
}

// fakeGenerator records requests and answers through reply.
type fakeGenerator struct {
	mu    sync.Mutex
	reqs  []llm.Request
	reply func(ctx context.Context, req llm.Request) (llm.Response, error)
}

func (g *fakeGenerator) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	g.mu.Unlock()
	return g.reply(ctx, req)
}

func (g *fakeGenerator) requests() []llm.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]llm.Request(nil), g.reqs...)
}

func replyText(text string) func(context.Context, llm.Request) (llm.Response, error) {
	return func(context.Context, llm.Request) (llm.Response, error) {
		return llm.Response{Text: text, Iterations: 1}, nil
	}
}

func replyErr(err error) func(context.Context, llm.Request) (llm.Response, error) {
	return func(context.Context, llm.Request) (llm.Response, error) {
		return llm.Response{}, err
	}
}

// callTool invokes the named tool from req the way a provider loop would.
func callTool(t *testing.T, ctx context.Context, req llm.Request, name string, args any) string {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	for _, tool := range req.Tools {
		if tool.Name == name {
			out, err := tool.Handler(ctx, raw)
			if err != nil {
				return "Error: " + err.Error()
			}
			return out
		}
	}
	t.Fatalf("tool %q not offered", name)
	return ""
}

func toolNames(req llm.Request) []string {
	names := make([]string, 0, len(req.Tools))
	for _, tool := range req.Tools {
		names = append(names, tool.Name)
	}
	return names
}

// prose returns words words as ten-word sentences, three per paragraph.
func prose(words int) string {
	var paras, cur []string
	for i := 0; i < words/10; i++ {
		cur = append(cur, strings.TrimSpace(strings.Repeat("word ", 9))+" end.")
		if len(cur) == 3 {
			paras = append(paras, strings.Join(cur, " "))
			cur = nil
		}
	}
	if len(cur) > 0 {
		paras = append(paras, strings.Join(cur, " "))
	}
	return strings.Join(paras, "\n\n")
}

func testOrchestrator(archive Archive, web *fakeWeb, gen llm.Generator) *Orchestrator {
	o := New(archive, nil, gen, types.DefaultConfig(), nil)
	if web != nil {
		o.Web = web
	}
	return o
}

func ideasJSON(ideas ...types.Idea) string {
	data, err := json.Marshal(map[string]any{"ideas": ideas})
	if err != nil {
		panic(fmt.Sprintf("marshal ideas: %v", err))
	}
	return string(data)
}
