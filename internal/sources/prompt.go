// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"fmt"
	"strings"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// excerptLimit caps each excerpt shown to the generator, in characters.
const excerptLimit = 300

// FormatForPrompt renders numbered records as "Source N:" blocks. Records
// without a citation number are labelled by position.
func FormatForPrompt(records []types.SourceRecord) string {
	if len(records) == 0 {
		return "No sources provided."
	}

	var b strings.Builder
	for i, r := range records {
		n := r.CitationNumber
		if n == 0 {
			n = i + 1
		}
		relevance := "N/A"
		if r.RelevanceScore != nil {
			relevance = fmt.Sprintf("%.3f", *r.RelevanceScore)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Source %d:\n", n)
		fmt.Fprintf(&b, "- Title: %s\n", r.Title)
		fmt.Fprintf(&b, "- Source: %s\n", r.Origin)
		fmt.Fprintf(&b, "- Type: %s\n", r.Kind)
		fmt.Fprintf(&b, "- Date: %s\n", r.Date)
		fmt.Fprintf(&b, "- URL: %s\n", r.URL)
		fmt.Fprintf(&b, "- Relevance: %s\n", relevance)
		fmt.Fprintf(&b, "- Excerpt: %s\n", Truncate(r.Excerpt, excerptLimit))
	}
	return b.String()
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
