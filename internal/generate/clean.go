// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"regexp"
	"strings"
)

// cleanRule removes one family of meta-commentary from generator output.
type cleanRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// cleanRules run in order. Leading rules catch preambles such as "Here is
// the article"; trailing rules catch closing review notes.
var cleanRules = []cleanRule{
	{regexp.MustCompile(`(?im)^(?:here is|here's|please find|i've (?:created|written|prepared)).*?(?:\n|$)`), ""},
	{regexp.MustCompile(`(?im)^(?:the article is|this article is|it is).*?(?:ready|complete|finished).*?(?:\n|$)`), ""},
	{regexp.MustCompile(`(?im)^(?:i have|i've).*?(?:followed|adhered to|incorporated).*?(?:\n|$)`), ""},
	{regexp.MustCompile(`(?im)^(?:this draft|the draft).*?(?:\n|$)`), ""},
	{regexp.MustCompile(`(?im)(?:\n|^)(?:this article|the article|it).*?(?:ready for review|ready for publication|adheres to).*?$`), ""},
	{regexp.MustCompile(`(?im)(?:\n|^)(?:please|feel free to).*?(?:review|edit|revise).*?$`), ""},
}

var headingLineRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)

// Clean strips meta-commentary from generated Markdown and discards any
// text before the first heading. Output that already starts with
// "# <headline>" is returned unchanged apart from surrounding whitespace.
func Clean(text, headline string) string {
	trimmed := strings.TrimSpace(text)
	if headline != "" && strings.HasPrefix(trimmed, "# "+strings.TrimSpace(headline)) {
		return trimmed
	}

	for _, r := range cleanRules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}

	if !strings.HasPrefix(strings.TrimSpace(text), "#") {
		if headline != "" {
			re := regexp.MustCompile(`(?m)^#\s+` + regexp.QuoteMeta(strings.TrimSpace(headline)))
			if loc := re.FindStringIndex(text); loc != nil {
				return strings.TrimSpace(text[loc[0]:])
			}
		}
		if loc := headingLineRe.FindStringIndex(text); loc != nil {
			text = text[loc[0]:]
		}
	}
	return strings.TrimSpace(text)
}
