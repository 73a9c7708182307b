// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"math"

	"github.com/pdiddy/newsdesk/internal/citation"
	"github.com/pdiddy/newsdesk/internal/compliance"
	"github.com/pdiddy/newsdesk/internal/llm"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

const (
	draftMaxIterations = 20

	MinWordCount     = 1000
	MaxWordCount     = 2000
	DefaultWordCount = 1500

	// targetBand is the allowed relative distance from the target word count.
	targetBand = 0.10

	minCompliance = 0.7
)

// DraftRequest asks for a full article draft from an outline.
type DraftRequest struct {
	Headline string `json:"headline"`
	Thesis   string `json:"thesis"`
	Outline  string `json:"outline"`

	// Sources is the numbered list returned by the outline task.
	Sources []types.SourceRecord `json:"sources"`

	KeyFacts []string `json:"key_facts"`

	// TargetWordCount is clamped to 1000..2000. Zero means 1500.
	TargetWordCount int  `json:"target_word_count"`
	EnableWebSearch bool `json:"enable_web_search"`
}

// ClampWordCount normalizes a requested target word count.
func ClampWordCount(n int) int {
	switch {
	case n == 0:
		return DefaultWordCount
	case n < MinWordCount:
		return MinWordCount
	case n > MaxWordCount:
		return MaxWordCount
	}
	return n
}

// Draft writes the article. Supplied sources keep their order and numbers
// so the outline's citations stay valid; web results take the next free
// numbers.
func (o *Orchestrator) Draft(ctx context.Context, req DraftRequest) (*types.DraftArtifact, error) {
	if err := required("headline", req.Headline); err != nil {
		return nil, err
	}
	if err := required("thesis", req.Thesis); err != nil {
		return nil, err
	}
	if err := required("outline", req.Outline); err != nil {
		return nil, err
	}
	target := ClampWordCount(req.TargetWordCount)
	log := o.requestLog("draft")
	log.Info("generating draft", "headline", req.Headline, "target_words", target,
		"sources", len(req.Sources), "web_search", req.EnableWebSearch)

	var warn warnings
	ledger := sources.NewLedger(req.Sources)
	if req.EnableWebSearch {
		web, msg := o.searchWeb(ctx, req.Headline+" "+req.Thesis, log)
		warn.add(msg)
		ledger.Append(web...)
	}

	prompt, err := draftPrompt(req, o.Guidelines, target, ledger.Records(), req.EnableWebSearch && o.Web != nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.Generator.Complete(ctx, llm.Request{
		System:        agentSystem,
		Prompt:        prompt,
		Tools:         o.tools(ledger, req.EnableWebSearch, log),
		MaxIterations: draftMaxIterations,
		Temperature:   o.temperature(),
	})
	if err != nil {
		log.Error("generation failed", "error", err)
		return nil, fmt.Errorf("generating draft: %w", err)
	}
	log.Info("generator finished", "tool_calls", resp.ToolCalls, "iterations", resp.Iterations)

	f := finish(resp.Text, req.Headline, ledger, log)
	words := compliance.CountWords(f.text)
	log.Info("draft generated", "words", words)

	switch {
	case words < MinWordCount:
		warn.add(fmt.Sprintf("Word count below minimum: %d words (target: %d)", words, target))
	case words > MaxWordCount:
		warn.add(fmt.Sprintf("Word count above maximum: %d words (target: %d)", words, target))
	case math.Abs(float64(words-target)) > targetBand*float64(target):
		warn.add(fmt.Sprintf("Word count significantly different from target: %d vs %d", words, target))
	}
	if f.tracking.UniqueSourcesCount < minUniqueSources {
		warn.add(lowDiversity(f.tracking.UniqueSourcesCount))
	}
	if f.report.Score < minCompliance {
		warn.add(fmt.Sprintf("Low editorial compliance score: %.2f", f.report.Score))
	}
	if f.tracking.CitationCount == 0 {
		warn.add("No citations found in draft - all claims must be cited")
	}
	if req.EnableWebSearch && citation.CitedKinds(f.tracking)[types.KindWeb] == 0 {
		warn.add("Web search enabled but no web sources cited")
	}

	return &types.DraftArtifact{
		Headline:          req.Headline,
		Thesis:            req.Thesis,
		Draft:             f.text,
		WordCount:         words,
		SourcesUsed:       f.tracking.SourcesUsed,
		SourcesAvailable:  f.tracking.SourcesAvailable,
		SectionsGenerated: nonNil(citation.Sections(f.text)),
		ComplianceScore:   f.report.Score,
		Warning:           warn.join(),
	}, nil
}
