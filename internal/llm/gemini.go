// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	genai "google.golang.org/genai"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// Gemini generates with the Gemini API. It answers from the prompt alone;
// tools in a request are ignored.
type Gemini struct {
	cli   *genai.Client
	model string
	log   *slog.Logger
}

// NewGemini builds a Gemini generator from cfg.
func NewGemini(ctx context.Context, cfg types.GenerationConfig, log *slog.Logger) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if log == nil {
		log = discardLogger()
	}
	return &Gemini{cli: cli, model: strings.TrimSpace(cfg.Model), log: log.With("provider", "gemini")}, nil
}

// Complete sends one generation request.
func (g *Gemini) Complete(ctx context.Context, req Request) (Response, error) {
	if len(req.Tools) > 0 {
		g.log.Debug("tools not supported, answering from prompt", "tools", len(req.Tools))
	}

	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		cfg.Temperature = &t
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return Response{}, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Response{}, errors.New("gemini generate content: empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return Response{Text: b.String(), Iterations: 1}, nil
}
