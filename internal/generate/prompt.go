// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

//go:embed guidelines.md
var defaultGuidelines string

// LoadGuidelines reads editorial guidelines from path. An empty path
// returns the built-in guidelines.
func LoadGuidelines(path string) (string, error) {
	if path == "" {
		return defaultGuidelines, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading editorial guidelines: %w", err)
	}
	return string(data), nil
}

const ideasSystem = `You are an AI Journalist Assistant. You propose evidence-based article ideas using only the numbered sources you are given. You never invent facts.`

const agentSystem = `You are a professional journalist writing for publication.
You ONLY output Markdown text, starting with a heading. You NEVER add preamble, explanations, or notes about the guidelines.`

var ideasTmpl = template.Must(template.New("ideas").Parse(`Generate {{.NumIdeas}} article ideas about: {{.Topic}}

Each idea needs:
1. A compelling headline (attention-grabbing but factual, not clickbait)
2. A clear thesis statement (1-2 sentences)
3. 3 key facts, each with an inline citation to a numbered source such as [1] or [2]
4. A suggested data visualization

AVAILABLE SOURCES:
{{.Sources}}

RULES:
- Use ONLY the numbered sources above. Never invent information.
- Cite with the source number in square brackets, e.g. [1]. Use the exact numbers listed.
- Use at least 3 distinct sources across all ideas.

Respond with a JSON object only:
{"ideas": [{"headline": "...", "thesis": "...", "key_facts": ["fact [1]", "fact [2]", "fact [3]"], "suggested_visualization": "..."}]}
`))

var outlineTmpl = template.Must(template.New("outline").Parse(`Create a detailed article outline. Follow the editorial guidelines strictly.

EDITORIAL GUIDELINES:
{{.Guidelines}}

ARTICLE DETAILS:
- Headline: {{.Headline}}
- Thesis: {{.Thesis}}
- Key Facts to Incorporate:
{{.KeyFacts}}
- Suggested Visualization: {{.Visualization}}

AVAILABLE SOURCES:
{{.Sources}}

YOUR TASK:
1. Build the outline from the numbered sources above.
2. If they are not enough, call archive_retrieval{{if .WebSearch}} or web_search{{end}} for more evidence. Retrieved results come back with their own source numbers; cite those numbers.
3. Write the outline in this structure:

# {{.Headline}}

## Introduction
**Hook:** what the opening should accomplish
**Context:** background the reader needs, with citations
**Thesis:** {{.Thesis}}
**Why This Matters Now:** current relevance and stakes

## [Body section heading]
**Key Point:** main argument for the section
- points to make, each with a citation such as [1]
(3 to 5 body sections)

## Data Visualization
{{.VisualizationHint}}

## Conclusion
**Synthesis:**, **Implications:**, **Final Thought:**

CRITICAL RULES:
- ONLY use information from the numbered sources. Never invent facts.
- Cite every claim with its source number, e.g. [2].
- If the sources are insufficient, state clearly: "Insufficient sources found in archive".
`))

var draftTmpl = template.Must(template.New("draft").Parse(`Write the complete article NOW. Your response must be ONLY the article text, starting with "# {{.Headline}}".

EDITORIAL GUIDELINES:
{{.Guidelines}}

ARTICLE DETAILS:
Headline: {{.Headline}}
Thesis: {{.Thesis}}
Target Word Count: {{.TargetWordCount}} words (acceptable range: 1000-2000 words)

KEY FACTS TO INCORPORATE:
{{.KeyFacts}}

OUTLINE TO FOLLOW:
{{.Outline}}

AVAILABLE SOURCES:
{{.Sources}}

WRITING INSTRUCTIONS:
- Follow the outline structure. Use its section headings as H2 (##) headings.
- Expand outline notes into prose. Do not copy placeholders such as "**Key Point:**" or word-count hints.
- Average 15-20 words per sentence. Keep paragraphs to 2-4 sentences.
- Every factual claim, statistic, or quote MUST carry an inline citation with the source number, e.g. [1], placed before the period.
- Use at least 3 distinct sources. Reuse the same number for the same source.
- Call archive_retrieval{{if .WebSearch}} or web_search{{end}} ONLY when the sources above lack a specific fact. Retrieved results come back with their own source numbers.
- NEVER fabricate sources, statistics, or quotes. NEVER cite a number that is not listed.

Start with "# {{.Headline}}" followed by the introduction.
`))

// render executes tmpl with data.
func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func ideasPrompt(topic string, numIdeas int, fused []types.SourceRecord) (string, error) {
	return render(ideasTmpl, struct {
		Topic    string
		NumIdeas int
		Sources  string
	}{topic, numIdeas, sources.FormatForPrompt(fused)})
}

func outlinePrompt(req OutlineRequest, guidelines string, fused []types.SourceRecord, webSearch bool) (string, error) {
	viz, hint := "None suggested", "Suggest what data to visualize based on the sources."
	if v := strings.TrimSpace(req.SuggestedVisualization); v != "" {
		viz, hint = v, v
	}
	return render(outlineTmpl, struct {
		Guidelines, Headline, Thesis, KeyFacts string
		Visualization, VisualizationHint       string
		Sources                                string
		WebSearch                              bool
	}{
		Guidelines:        guidelines,
		Headline:          req.Headline,
		Thesis:            req.Thesis,
		KeyFacts:          bulletList(req.KeyFacts),
		Visualization:     viz,
		VisualizationHint: hint,
		Sources:           sources.FormatForPrompt(fused),
		WebSearch:         webSearch,
	})
}

func draftPrompt(req DraftRequest, guidelines string, target int, fused []types.SourceRecord, webSearch bool) (string, error) {
	return render(draftTmpl, struct {
		Guidelines, Headline, Thesis, KeyFacts, Outline, Sources string
		TargetWordCount                                          int
		WebSearch                                                bool
	}{
		Guidelines:      guidelines,
		Headline:        req.Headline,
		Thesis:          req.Thesis,
		KeyFacts:        bulletList(req.KeyFacts),
		Outline:         req.Outline,
		Sources:         sources.FormatForPrompt(fused),
		TargetWordCount: target,
		WebSearch:       webSearch,
	})
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			fmt.Fprintf(&b, "- %s\n", it)
		}
	}
	if b.Len() == 0 {
		return "None provided"
	}
	return strings.TrimRight(b.String(), "\n")
}
