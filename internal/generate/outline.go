// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/newsdesk/internal/compliance"
	"github.com/pdiddy/newsdesk/internal/llm"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// outlineMaxIterations bounds generator turns for the outline task.
const outlineMaxIterations = 10

const declinedWarning = "Limited relevant content found in archive. Consider adding more sources."

// OutlineRequest asks for an outline of one article.
type OutlineRequest struct {
	Headline               string   `json:"headline"`
	Thesis                 string   `json:"thesis"`
	KeyFacts               []string `json:"key_facts"`
	SuggestedVisualization string   `json:"suggested_visualization"`
	EnableWebSearch        bool     `json:"enable_web_search"`
}

// Outline generates a cited article outline. Weak archive evidence is
// reported as a warning; generation still runs so the generator can work
// from whatever sources exist or retrieve more through its tools.
func (o *Orchestrator) Outline(ctx context.Context, req OutlineRequest) (*types.OutlineArtifact, error) {
	if err := required("headline", req.Headline); err != nil {
		return nil, err
	}
	if err := required("thesis", req.Thesis); err != nil {
		return nil, err
	}
	log := o.requestLog("outline")
	log.Info("generating outline", "headline", req.Headline, "web_search", req.EnableWebSearch)

	query := req.Headline + " " + req.Thesis
	res, err := o.searchArchive(ctx, query, o.Config.Archive.TopK*2, log)
	if err != nil {
		return nil, err
	}
	var warn warnings
	warn.add(res.Warning)

	var web []types.SourceRecord
	if req.EnableWebSearch {
		var msg string
		web, msg = o.searchWeb(ctx, query, log)
		warn.add(msg)
	}

	ledger := sources.NewLedger(sources.Fuse(sources.FromCandidates(res.Kept), web))
	prompt, err := outlinePrompt(req, o.Guidelines, ledger.Records(), req.EnableWebSearch && o.Web != nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.Generator.Complete(ctx, llm.Request{
		System:        agentSystem,
		Prompt:        prompt,
		Tools:         o.tools(ledger, req.EnableWebSearch, log),
		MaxIterations: outlineMaxIterations,
		Temperature:   o.temperature(),
	})
	if err != nil {
		log.Error("generation failed", "error", err)
		return nil, fmt.Errorf("generating outline: %w", err)
	}
	log.Info("generator finished", "tool_calls", resp.ToolCalls, "iterations", resp.Iterations)

	f := finish(resp.Text, req.Headline, ledger, log)

	if len(f.ledger) == 0 {
		warn.add("No sources available from archive or web search")
	}
	lower := strings.ToLower(f.text)
	if strings.Contains(lower, "insufficient sources") || strings.Contains(lower, "no relevant") {
		warn.add(declinedWarning)
	}
	if f.tracking.CitationCount == 0 {
		warn.add("No citations found in outline")
	}
	if f.tracking.UniqueSourcesCount < minUniqueSources {
		warn.add(lowDiversity(f.tracking.UniqueSourcesCount))
	}

	return &types.OutlineArtifact{
		Headline:               req.Headline,
		Thesis:                 req.Thesis,
		KeyFacts:               nonNil(req.KeyFacts),
		SuggestedVisualization: req.SuggestedVisualization,
		Outline:                f.text,
		Sources:                nonNil(f.ledger),
		WordCount:              compliance.CountWords(f.text),
		SourcesUsed:            f.tracking.SourcesUsed,
		SourcesAvailable:       f.tracking.SourcesAvailable,
		ComplianceScore:        f.report.Score,
		Warning:                warn.join(),
	}, nil
}
