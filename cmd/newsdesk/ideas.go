// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsdesk/internal/generate"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas <topic>",
	Short: "Generate article ideas from archive evidence",
	Long: `Ideas retrieves archive passages for a topic, drops those below the
relevance threshold, and asks the generator for 1 to 5 article ideas. Each
idea has a headline, a thesis, cited key facts, and a suggested
visualization. When the archive holds nothing relevant no ideas are
generated and the output carries a warning instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdeas,
}

func runIdeas(cmd *cobra.Command, args []string) error {
	num, _ := cmd.Flags().GetInt("num-ideas")
	format, _ := cmd.Flags().GetString("format")

	o, closeFn, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	set, err := o.Ideas(cmd.Context(), generate.IdeasRequest{
		Topic:    strings.Join(args, " "),
		NumIdeas: num,
	})
	if err != nil {
		return err
	}
	printWarning(set.Warning)

	if format == "markdown" {
		if len(set.Ideas) == 0 {
			fmt.Fprintln(os.Stdout, "No ideas generated.")
			return nil
		}
		_, err := fmt.Fprint(os.Stdout, generate.RenderIdeas(set.Ideas))
		return err
	}
	return writeOutput(os.Stdout, set, format)
}

func init() {
	ideasCmd.Flags().Int("num-ideas", 3, "number of ideas to generate (1-5)")
	ideasCmd.Flags().String("format", "json", "output format: json, yaml, or markdown")

	rootCmd.AddCommand(ideasCmd)
}
