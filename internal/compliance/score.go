// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compliance

import (
	"regexp"
	"strings"

	"github.com/pdiddy/newsdesk/internal/citation"
)

// Penalties applied by Check. Each check deducts at most once, except the
// banned-phrase check which deducts per distinct phrase.
const (
	penaltySentenceFar  = 0.2
	penaltySentenceNear = 0.1
	penaltyShortParas   = 0.15
	penaltyLongParas    = 0.15
	penaltyLowCitations = 0.2
	penaltyBannedPhrase = 0.1

	densityMinWords = 500
	minDensity      = 0.5 // citations per 100 words
)

// BannedPhrases is the clickbait lexicon, matched case-insensitively.
var BannedPhrases = []string{"shocking", "amazing", "incredible", "unbelievable", "you won't believe"}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Report holds the individual findings behind a compliance score.
type Report struct {
	Score float64 `json:"score"`

	AvgSentenceLength float64 `json:"avg_sentence_length"`
	Sentences         int     `json:"sentences"`

	Paragraphs      int `json:"paragraphs"`
	ShortParagraphs int `json:"short_paragraphs"`
	LongParagraphs  int `json:"long_paragraphs"`

	WordCount       int     `json:"word_count"`
	Citations       int     `json:"citations"`
	CitationDensity float64 `json:"citation_density"`

	BannedPhrases []string `json:"banned_phrases,omitempty"`
}

// Score returns the compliance score of text in [0,1].
func Score(text string) float64 {
	return Check(text).Score
}

// Check runs every style check over text and returns the findings.
func Check(text string) Report {
	rep := Report{Score: 1.0}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	content := strings.Join(lines, " ")

	sentences := splitSentences(content)
	rep.Sentences = len(sentences)
	if len(sentences) > 0 {
		words := 0
		for _, s := range sentences {
			words += len(strings.Fields(s))
		}
		rep.AvgSentenceLength = float64(words) / float64(len(sentences))
		switch avg := rep.AvgSentenceLength; {
		case avg < 10 || avg > 30:
			rep.Score -= penaltySentenceFar
		case avg < 15 || avg > 20:
			rep.Score -= penaltySentenceNear
		}
	}

	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) == "" || strings.HasPrefix(p, "#") {
			continue
		}
		rep.Paragraphs++
		switch n := len(splitSentences(p)); {
		case n < 2:
			rep.ShortParagraphs++
		case n > 6:
			rep.LongParagraphs++
		}
	}
	if rep.Paragraphs > 0 {
		if float64(rep.ShortParagraphs) > float64(rep.Paragraphs)*0.3 {
			rep.Score -= penaltyShortParas
		}
		if float64(rep.LongParagraphs) > float64(rep.Paragraphs)*0.2 {
			rep.Score -= penaltyLongParas
		}
	}

	rep.Citations = citation.Count(text)
	rep.WordCount = CountWords(text)
	if rep.WordCount > densityMinWords {
		rep.CitationDensity = float64(rep.Citations) / (float64(rep.WordCount) / 100)
		if rep.CitationDensity < minDensity {
			rep.Score -= penaltyLowCitations
		}
	}

	lower := strings.ToLower(content)
	for _, phrase := range BannedPhrases {
		if strings.Contains(lower, phrase) {
			rep.BannedPhrases = append(rep.BannedPhrases, phrase)
			rep.Score -= penaltyBannedPhrase
		}
	}

	rep.Score = clamp(rep.Score)
	return rep
}

func splitSentences(s string) []string {
	var out []string
	for _, part := range sentenceSplitRe.Split(s, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
