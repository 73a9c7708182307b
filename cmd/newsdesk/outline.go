// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsdesk/internal/generate"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Generate a cited article outline",
	Long: `Outline fuses archive evidence, and web results when --web-search is set,
into one numbered source list and asks the generator for a structured
outline. The generator may retrieve more evidence while it works; those
sources join the list with the next free numbers.

Save the JSON output and pass it to "newsdesk draft --from" so the draft
uses the same numbered sources.`,
	RunE: runOutline,
}

func runOutline(cmd *cobra.Command, args []string) error {
	headline, _ := cmd.Flags().GetString("headline")
	thesis, _ := cmd.Flags().GetString("thesis")
	facts, _ := cmd.Flags().GetStringArray("key-fact")
	viz, _ := cmd.Flags().GetString("visualization")
	web, _ := cmd.Flags().GetBool("web-search")
	format, _ := cmd.Flags().GetString("format")

	o, closeFn, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	art, err := o.Outline(cmd.Context(), generate.OutlineRequest{
		Headline:               headline,
		Thesis:                 thesis,
		KeyFacts:               facts,
		SuggestedVisualization: viz,
		EnableWebSearch:        web,
	})
	if err != nil {
		return err
	}
	printWarning(art.Warning)

	if format == "markdown" {
		_, err := fmt.Fprintln(os.Stdout, art.Outline)
		return err
	}
	return writeOutput(os.Stdout, art, format)
}

func init() {
	outlineCmd.Flags().String("headline", "", "article headline (required)")
	outlineCmd.Flags().String("thesis", "", "thesis statement (required)")
	outlineCmd.Flags().StringArray("key-fact", nil, "key fact to incorporate (repeatable)")
	outlineCmd.Flags().String("visualization", "", "suggested data visualization")
	outlineCmd.Flags().Bool("web-search", false, "include web search results")
	outlineCmd.Flags().String("format", "json", "output format: json, yaml, or markdown")

	rootCmd.AddCommand(outlineCmd)
}
