// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate runs the ideas, outline, and draft tasks: retrieve and
// filter evidence, fuse it into one numbered source list, call the
// generator, then clean, track, expand, score, and warn.
package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/newsdesk/internal/citation"
	"github.com/pdiddy/newsdesk/internal/compliance"
	"github.com/pdiddy/newsdesk/internal/llm"
	"github.com/pdiddy/newsdesk/internal/relevance"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/internal/websearch"
	"github.com/pdiddy/newsdesk/pkg/types"
)

// Archive is the archive retrieval capability.
type Archive interface {
	Search(ctx context.Context, query string, k int) ([]types.Candidate, error)
}

// Orchestrator holds the capabilities shared by all tasks. It keeps no
// per-request state, so one Orchestrator serves concurrent requests.
type Orchestrator struct {
	Archive   Archive
	Web       websearch.Searcher // nil when web search is not configured
	Generator llm.Generator
	Config    types.Config

	// Guidelines are the editorial guidelines placed in agent prompts.
	Guidelines string

	Log *slog.Logger
}

// New returns an Orchestrator using the built-in editorial guidelines.
// A nil log discards output.
func New(archive Archive, web websearch.Searcher, gen llm.Generator, cfg types.Config, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}
	return &Orchestrator{
		Archive:    archive,
		Web:        web,
		Generator:  gen,
		Config:     cfg,
		Guidelines: defaultGuidelines,
		Log:        log,
	}
}

// requestLog tags every line of one request with a fresh request ID.
func (o *Orchestrator) requestLog(task string) *slog.Logger {
	return o.Log.With("request_id", uuid.NewString(), "task", task)
}

func (o *Orchestrator) temperature() *float64 {
	t := o.Config.Generation.Temperature
	return &t
}

// searchArchive retrieves k candidates for query and applies the
// relevance filter.
func (o *Orchestrator) searchArchive(ctx context.Context, query string, k int, log *slog.Logger) (relevance.Result, error) {
	if k <= 0 {
		k = types.DefaultConfig().Archive.TopK
	}
	candidates, err := o.Archive.Search(ctx, query, k)
	if err != nil {
		log.Error("archive retrieval failed", "error", err)
		return relevance.Result{}, fmt.Errorf("retrieving from archive: %w", err)
	}
	res := relevance.Filter(candidates, o.Config.Relevance.MinScore, o.Config.Relevance.HighScore)
	log.Info("archive retrieval",
		"candidates", len(candidates), "kept", len(res.Kept),
		"quality", res.Quality, "best_score", res.BestScore())
	return res, nil
}

// searchWeb returns web records for query. Failures degrade to a warning
// so the task can continue on archive evidence.
func (o *Orchestrator) searchWeb(ctx context.Context, query string, log *slog.Logger) ([]types.SourceRecord, string) {
	if o.Web == nil {
		return nil, "Web search requested but not configured"
	}
	resp, err := o.Web.Search(ctx, query, websearch.ClampResults(o.Config.Web.MaxResults))
	if err != nil {
		log.Error("web search failed", "error", err)
		return nil, fmt.Sprintf("Web search failed: %v", err)
	}
	log.Info("web search", "results", len(resp.Results))
	return sources.FromWeb(resp.Results), ""
}

// finished is the post-generation result shared by the agent tasks.
type finished struct {
	text     string // cleaned and expanded
	tracking citation.Tracking
	report   compliance.Report
	ledger   []types.SourceRecord
}

// finish runs CLEAN, TRACK, EXPAND, and SCORE over raw generator output.
// Tracking and expansion use the ledger as it stands after any tool calls.
func finish(raw, headline string, ledger *sources.Ledger, log *slog.Logger) finished {
	cleaned := Clean(raw, headline)
	if cleaned != strings.TrimSpace(raw) {
		log.Info("cleaned meta-commentary from generator output")
	}
	final := ledger.Records()
	tr := citation.Track(cleaned, final)
	expanded := citation.Expand(cleaned, final)
	rep := compliance.Check(expanded)
	log.Debug("editorial compliance",
		"score", rep.Score,
		"avg_sentence_length", rep.AvgSentenceLength,
		"paragraphs", rep.Paragraphs,
		"short_paragraphs", rep.ShortParagraphs,
		"long_paragraphs", rep.LongParagraphs,
		"citation_density", rep.CitationDensity,
		"banned_phrases", rep.BannedPhrases)
	log.Info("citations tracked",
		"citations", tr.CitationCount, "unique_sources", tr.UniqueSourcesCount, "ledger", len(final))
	return finished{text: expanded, tracking: tr, report: rep, ledger: final}
}

func lowDiversity(unique int) string {
	return fmt.Sprintf("Low source diversity: only %d unique sources cited", unique)
}

// minUniqueSources is the fewest distinct cited sources before a
// diversity warning.
const minUniqueSources = 3

// nonNil keeps empty lists as [] in JSON output.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
