// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/newsdesk/internal/generate"
	"github.com/pdiddy/newsdesk/pkg/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Write a full article draft from an outline",
	Long: `Draft writes a 1000 to 2000 word article that follows an outline and
cites the outline's numbered sources. Pass the saved output of
"newsdesk outline" with --from; --headline, --thesis, and --outline-file
override its fields.

The draft is returned with citations expanded to [N, source, title, date],
its word count, the cited and uncited sources, section headings, an
editorial compliance score, and any warnings.`,
	RunE: runDraft,
}

func runDraft(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	outlineFile, _ := cmd.Flags().GetString("outline-file")
	target, _ := cmd.Flags().GetInt("target-words")
	web, _ := cmd.Flags().GetBool("web-search")
	format, _ := cmd.Flags().GetString("format")

	req := generate.DraftRequest{TargetWordCount: target, EnableWebSearch: web}
	if from != "" {
		art, err := readOutline(from)
		if err != nil {
			return err
		}
		req.Headline = art.Headline
		req.Thesis = art.Thesis
		req.Outline = art.Outline
		req.Sources = art.Sources
		req.KeyFacts = art.KeyFacts
	}
	if v, _ := cmd.Flags().GetString("headline"); v != "" {
		req.Headline = v
	}
	if v, _ := cmd.Flags().GetString("thesis"); v != "" {
		req.Thesis = v
	}
	if outlineFile != "" {
		data, err := os.ReadFile(outlineFile)
		if err != nil {
			return fmt.Errorf("reading outline: %w", err)
		}
		req.Outline = string(data)
	}

	o, closeFn, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	art, err := o.Draft(cmd.Context(), req)
	if err != nil {
		return err
	}
	printWarning(art.Warning)

	if format == "markdown" {
		_, err := fmt.Fprintln(os.Stdout, art.Draft)
		return err
	}
	return writeOutput(os.Stdout, art, format)
}

// readOutline loads a saved outline artifact. JSON files parse as YAML.
func readOutline(path string) (*types.OutlineArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading outline artifact: %w", err)
	}
	var art types.OutlineArtifact
	if err := yaml.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parsing outline artifact %s: %w", path, err)
	}
	return &art, nil
}

func init() {
	draftCmd.Flags().String("from", "", "outline artifact (JSON or YAML) written by the outline command")
	draftCmd.Flags().String("headline", "", "article headline")
	draftCmd.Flags().String("thesis", "", "thesis statement")
	draftCmd.Flags().String("outline-file", "", "Markdown outline file")
	draftCmd.Flags().Int("target-words", generate.DefaultWordCount, "target word count (1000-2000)")
	draftCmd.Flags().Bool("web-search", false, "include web search results")
	draftCmd.Flags().String("format", "json", "output format: json, yaml, or markdown")

	rootCmd.AddCommand(draftCmd)
}
