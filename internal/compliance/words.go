// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compliance scores generated Markdown against the editorial style
// rules and provides the word count shared by scoring and warnings.
// Implements: word counting, sentence and paragraph shape checks,
// citation density, and the clickbait lexicon.
package compliance

import (
	"regexp"
	"strings"
)

// markupRule rewrites one kind of Markdown syntax before counting.
type markupRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order: headings, links, bold, italic, code.
var markupRules = []markupRule{
	{regexp.MustCompile(`#+\s`), ""},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "$1"},
	{regexp.MustCompile(`\*([^*]+)\*`), "$1"},
	{regexp.MustCompile("`([^`]+)`"), "$1"},
}

// StripMarkup removes heading markers, link targets, and emphasis markers.
func StripMarkup(text string) string {
	for _, r := range markupRules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}

// CountWords counts whitespace-separated tokens after StripMarkup.
func CountWords(text string) int {
	return len(strings.Fields(StripMarkup(text)))
}
