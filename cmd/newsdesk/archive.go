// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsdesk/internal/archive"
	"github.com/pdiddy/newsdesk/internal/relevance"
	"github.com/pdiddy/newsdesk/internal/sources"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the article archive (ingest, search, list)",
	Long: `Archive manages a local SQLite full-text index of published articles.
Articles are Markdown or text files with optional YAML front matter
(title, source, date, url). Use subcommands to index, query, or inspect it.`,
}

// --- ingest subcommand ---

var archiveIngestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Index article files into the archive",
	Long: `Ingest walks a directory for .md and .txt articles, splits them into
passages, and indexes them with FTS5. Unchanged files are skipped on
subsequent runs. An article list is written to <archive>/index/articles.yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveIngest,
}

func runArchiveIngest(cmd *cobra.Command, args []string) error {
	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), args[0], os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d article(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- search subcommand ---

var archiveSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the archive and show relevance-filtered passages",
	Long: `Search runs a full-text query against the archive and applies the same
relevance filter the generation tasks use. Use --all to show passages below
the threshold too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runArchiveSearch,
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	k, _ := cmd.Flags().GetInt("top-k")
	all, _ := cmd.Flags().GetBool("all")
	format, _ := cmd.Flags().GetString("format")
	if k <= 0 {
		k = cfg.Archive.TopK
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	candidates, err := store.Search(cmd.Context(), strings.Join(args, " "), k)
	if err != nil {
		return err
	}
	res := relevance.Filter(candidates, cfg.Relevance.MinScore, cfg.Relevance.HighScore)
	if res.HasWarning() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", res.Warning)
	}
	kept := res.Kept
	if all {
		kept = candidates
	}
	records := sources.Fuse(sources.FromCandidates(kept), nil)

	if format == "text" {
		fmt.Fprintln(os.Stdout, sources.FormatForPrompt(records))
		return nil
	}
	return writeOutput(os.Stdout, records, format)
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Articles(cmd.Context())
		if err != nil {
			return err
		}
		if format != "text" {
			return writeOutput(os.Stdout, entries, format)
		}
		if len(entries) == 0 {
			fmt.Println("No articles indexed.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-20s  %-50s  %s\n", "Date", "Source", "Title", "Passages")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%-10s  %-20s  %-50s  %d\n",
				e.Date, sources.Truncate(e.Source, 17), sources.Truncate(e.Title, 47), e.Passages)
		}
		fmt.Fprintf(os.Stdout, "\n%d articles\n", len(entries))
		return nil
	},
}

// --- stats subcommand ---

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("articles: %d\npassages: %d\n", st.Articles, st.Passages)
		return nil
	},
}

// --- clear subcommand ---

var archiveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every article from the archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to clear the archive without --yes")
		}
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Archive cleared.")
		return nil
	},
}

func init() {
	archiveSearchCmd.Flags().Int("top-k", 0, "maximum passages to retrieve (0 = archive.top_k)")
	archiveSearchCmd.Flags().Bool("all", false, "show passages below the relevance threshold")
	archiveSearchCmd.Flags().String("format", "text", "output format: text, json, or yaml")

	archiveListCmd.Flags().String("format", "text", "output format: text, json, or yaml")

	archiveClearCmd.Flags().Bool("yes", false, "confirm clearing the archive")

	archiveCmd.AddCommand(archiveIngestCmd)
	archiveCmd.AddCommand(archiveSearchCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveStatsCmd)
	archiveCmd.AddCommand(archiveClearCmd)

	rootCmd.AddCommand(archiveCmd)
}
