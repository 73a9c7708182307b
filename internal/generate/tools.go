// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/newsdesk/internal/llm"
	"github.com/pdiddy/newsdesk/internal/relevance"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/internal/websearch"
)

const (
	archiveToolName = "archive_retrieval"
	webToolName     = "web_search"

	// maxToolTopK caps how many archive passages one tool call may request.
	maxToolTopK = 20
)

type archiveArgs struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type webArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// archiveTool lets the generator fetch more archive evidence mid-generation.
// Kept passages are appended to ledger so their numbers resolve during
// citation tracking.
func (o *Orchestrator) archiveTool(ledger *sources.Ledger, log *slog.Logger) llm.Tool {
	return llm.Tool{
		Name: archiveToolName,
		Description: "Retrieve articles from the internal archive. Use it to find facts, statistics, quotes, " +
			"and background from previously published articles. Results are numbered sources you may cite as [N].",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Specific search query describing the information needed"},
				"top_k": map[string]any{"type": "integer", "description": "Number of passages to retrieve (default 10)"},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args archiveArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("parsing arguments: %w", err)
			}
			if strings.TrimSpace(args.Query) == "" {
				return "", fmt.Errorf("query is required")
			}
			k := args.TopK
			if k <= 0 {
				k = o.Config.Archive.TopK * 2
			}
			k = min(k, maxToolTopK)

			candidates, err := o.Archive.Search(ctx, args.Query, k)
			if err != nil {
				log.Warn("archive tool search failed", "query", args.Query, "error", err)
				return "", fmt.Errorf("searching archive: %w", err)
			}
			res := relevance.Filter(candidates, o.Config.Relevance.MinScore, o.Config.Relevance.HighScore)
			if !res.Sufficient() {
				return "No relevant articles found in archive. " + res.Warning, nil
			}
			numbered := ledger.Append(sources.FromCandidates(res.Kept)...)
			log.Info("archive tool", "query", args.Query, "kept", len(numbered), "ledger", ledger.Len())

			out := sources.FormatForPrompt(numbered)
			if res.HasWarning() {
				out = "WARNING: " + res.Warning + "\n\n" + out
			}
			return out, nil
		},
	}
}

// webTool lets the generator search the web mid-generation. Results are
// appended to ledger like archive evidence.
func (o *Orchestrator) webTool(ledger *sources.Ledger, log *slog.Logger) llm.Tool {
	return llm.Tool{
		Name: webToolName,
		Description: "Search the web for recent developments, breaking news, and external perspectives. " +
			"Use it when the archive lacks recent or comprehensive information. Results are numbered sources you may cite as [N].",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":       map[string]any{"type": "string", "description": "Specific search query"},
				"max_results": map[string]any{"type": "integer", "description": "Number of results (default 5, maximum 10)"},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args webArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("parsing arguments: %w", err)
			}
			if strings.TrimSpace(args.Query) == "" {
				return "", fmt.Errorf("query is required")
			}
			n := args.MaxResults
			if n <= 0 {
				n = o.Config.Web.MaxResults
			}
			resp, err := o.Web.Search(ctx, args.Query, websearch.ClampResults(n))
			if err != nil {
				log.Warn("web tool search failed", "query", args.Query, "error", err)
				return "", fmt.Errorf("searching web: %w", err)
			}
			if len(resp.Results) == 0 {
				return "No web search results found for query: " + args.Query, nil
			}
			numbered := ledger.Append(sources.FromWeb(resp.Results)...)
			log.Info("web tool", "query", args.Query, "results", len(numbered), "ledger", ledger.Len())

			out := fmt.Sprintf("Found %d web search results:\n\n%s", len(numbered), sources.FormatForPrompt(numbered))
			if resp.Answer != "" {
				out = "Summary: " + resp.Answer + "\n\n" + out
			}
			return out, nil
		},
	}
}

// tools returns the tool set for an agent task. The web tool is offered
// only when requested and configured.
func (o *Orchestrator) tools(ledger *sources.Ledger, webSearch bool, log *slog.Logger) []llm.Tool {
	tools := []llm.Tool{o.archiveTool(ledger, log)}
	if webSearch && o.Web != nil {
		tools = append(tools, o.webTool(ledger, log))
	}
	return tools
}
