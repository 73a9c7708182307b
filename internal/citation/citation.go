// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation finds numeric [N] citations in generated text, checks
// them against the numbered source list, and rewrites them into
// self-describing [N, source, title, date] form.
package citation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/newsdesk/pkg/types"
)

// numericCiteRe matches a bare numeric citation such as [3]. Expanded
// citations ("[3, Tribune, ...]") do not match, which keeps Expand idempotent.
var numericCiteRe = regexp.MustCompile(`\[(\d+)\]`)

// anyCiteRe matches a citation in either bare or expanded form.
var anyCiteRe = regexp.MustCompile(`\[\d+(?:,[^\]\n]*)?\]`)

// sectionRe matches a level-two Markdown heading.
var sectionRe = regexp.MustCompile(`(?m)^##\s+(.+?)\s*$`)

// Tracking is the result of matching citations against the fused list.
type Tracking struct {
	// SourcesUsed are the records cited at least once, in list order.
	SourcesUsed []types.SourceRecord `json:"sources_used"`

	// SourcesAvailable are the records never cited, in list order.
	SourcesAvailable []types.SourceRecord `json:"sources_available"`

	// CitationCount counts every numeric citation, including repeats and
	// numbers outside the list.
	CitationCount int `json:"citation_count"`

	// UniqueSourcesCount is len(SourcesUsed).
	UniqueSourcesCount int `json:"unique_sources_count"`
}

// ExtractNumbers returns every [N] citation number in order of appearance.
func ExtractNumbers(text string) []int {
	matches := numericCiteRe.FindAllStringSubmatch(text, -1)
	nums := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// Count returns how many citations text holds, counting expanded
// "[N, source, title, date]" citations as well as bare [N].
func Count(text string) int {
	return len(anyCiteRe.FindAllStringIndex(text, -1))
}

// Track partitions fused by whether each record's 1-based position was
// cited in text. Numbers outside 1..len(fused) count toward CitationCount
// only.
func Track(text string, fused []types.SourceRecord) Tracking {
	nums := ExtractNumbers(text)
	cited := make(map[int]bool, len(nums))
	for _, n := range nums {
		cited[n] = true
	}

	t := Tracking{
		SourcesUsed:      []types.SourceRecord{},
		SourcesAvailable: []types.SourceRecord{},
		CitationCount:    len(nums),
	}
	for i, r := range fused {
		n := i + 1
		if cited[n] {
			r.CitationNumber = n
			t.SourcesUsed = append(t.SourcesUsed, r)
		} else {
			t.SourcesAvailable = append(t.SourcesAvailable, r)
		}
	}
	t.UniqueSourcesCount = len(t.SourcesUsed)
	return t
}

// Expand rewrites each in-range [N] as [N, origin, title, date]. Citations
// outside 1..len(fused) are left as written.
func Expand(text string, fused []types.SourceRecord) string {
	if len(fused) == 0 {
		return text
	}
	return numericCiteRe.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || n < 1 || n > len(fused) {
			return m
		}
		r := fused[n-1]
		return fmt.Sprintf("[%d, %s, %s, %s]", n, r.Origin, r.Title, r.Date)
	})
}

// Sections returns the level-two headings of a Markdown document.
func Sections(markdown string) []string {
	matches := sectionRe.FindAllStringSubmatch(markdown, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// CitedKinds counts used sources per kind.
func CitedKinds(t Tracking) map[types.SourceKind]int {
	counts := make(map[types.SourceKind]int)
	for _, r := range t.SourcesUsed {
		counts[r.Kind]++
	}
	return counts
}
