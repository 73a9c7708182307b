// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps hosted text generation behind one Generator interface.
// Implements: the generation capability (prompt, system prompt, optional
// tools) for OpenAI, Anthropic, and Gemini, with a bounded tool-call loop.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// DefaultMaxIterations bounds the tool-call loop when a request sets none.
const DefaultMaxIterations = 10

// ErrToolLoopExhausted is returned when the iteration ceiling is reached
// before the generator produced any text.
var ErrToolLoopExhausted = errors.New("tool-call iteration ceiling reached without a final answer")

// ToolHandler executes one tool call. args is the raw JSON object the
// generator supplied. The returned text is sent back to the generator.
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool describes a function the generator may call mid-generation.
type Tool struct {
	Name        string
	Description string

	// Parameters is a JSON schema object describing the arguments.
	Parameters map[string]any

	Handler ToolHandler
}

// Request is one generation call.
type Request struct {
	System string
	Prompt string
	Tools  []Tool

	// MaxIterations bounds generator turns when Tools are set. Zero uses
	// DefaultMaxIterations.
	MaxIterations int

	// Temperature overrides the provider default when non-nil.
	Temperature *float64

	// JSON asks the provider for a JSON object response where supported.
	JSON bool
}

// Response is the finished generation.
type Response struct {
	Text       string
	ToolCalls  int
	Iterations int
}

// Generator is the generation capability.
type Generator interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// New selects a provider from cfg. The API key must be set.
func New(ctx context.Context, cfg types.GenerationConfig, log *slog.Logger) (Generator, error) {
	if log == nil {
		log = discardLogger()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing %s api key", providerName(cfg.Provider))
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("missing model")
	}
	switch providerName(cfg.Provider) {
	case "openai":
		return NewOpenAI(cfg, log), nil
	case "anthropic":
		return NewAnthropic(cfg, log), nil
	case "gemini":
		return NewGemini(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", cfg.Provider)
	}
}

func providerName(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return "openai"
	}
	return p
}

func maxIterations(req Request) int {
	if req.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return req.MaxIterations
}

// toolSet indexes request tools by name and runs them.
type toolSet struct {
	byName map[string]Tool
	log    *slog.Logger
}

func newToolSet(tools []Tool, log *slog.Logger) toolSet {
	ts := toolSet{byName: make(map[string]Tool, len(tools)), log: log}
	for _, t := range tools {
		ts.byName[t.Name] = t
	}
	return ts
}

// run executes a tool call. Failures are reported to the generator as
// text rather than ending the generation.
func (ts toolSet) run(ctx context.Context, name string, args json.RawMessage) (string, bool) {
	tool, ok := ts.byName[name]
	if !ok || tool.Handler == nil {
		ts.log.Warn("generator called unknown tool", "tool", name)
		return fmt.Sprintf("Error: unknown tool %q", name), false
	}
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	out, err := tool.Handler(ctx, args)
	if err != nil {
		ts.log.Warn("tool call failed", "tool", name, "err", err)
		return fmt.Sprintf("Error running %s: %v", name, err), false
	}
	ts.log.Debug("tool call", "tool", name, "args", string(args), "output_len", len(out))
	return out, true
}

// schemaParts splits a JSON schema object into properties and required.
func schemaParts(schema map[string]any) (any, []string) {
	var required []string
	switch r := schema["required"].(type) {
	case []string:
		required = r
	case []any:
		for _, v := range r {
			if s, ok := v.(string); ok {
				required = append(required, s)
			}
		}
	}
	props, ok := schema["properties"]
	if !ok {
		props = map[string]any{}
	}
	return props, required
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}
