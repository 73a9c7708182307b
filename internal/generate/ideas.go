// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/newsdesk/internal/citation"
	"github.com/pdiddy/newsdesk/internal/compliance"
	"github.com/pdiddy/newsdesk/internal/llm"
	"github.com/pdiddy/newsdesk/internal/sources"
	"github.com/pdiddy/newsdesk/pkg/types"
)

const (
	defaultNumIdeas = 3
	maxNumIdeas     = 5
)

const parseIdeasWarning = "Could not parse ideas from generator output"

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// IdeasRequest asks for article ideas on a topic.
type IdeasRequest struct {
	Topic string `json:"topic"`

	// NumIdeas is clamped to 1..5. Zero means 3.
	NumIdeas int `json:"num_ideas"`
}

// ClampIdeas normalizes a requested idea count.
func ClampIdeas(n int) int {
	switch {
	case n <= 0:
		return defaultNumIdeas
	case n > maxNumIdeas:
		return maxNumIdeas
	}
	return n
}

// Ideas generates article ideas grounded only in archive evidence. When the
// relevance filter finds no usable evidence it returns no ideas and the
// filter warning without calling the generator.
func (o *Orchestrator) Ideas(ctx context.Context, req IdeasRequest) (*types.IdeaSet, error) {
	if err := required("topic", req.Topic); err != nil {
		return nil, err
	}
	n := ClampIdeas(req.NumIdeas)
	log := o.requestLog("ideas")
	log.Info("generating ideas", "topic", req.Topic, "num_ideas", n)

	res, err := o.searchArchive(ctx, req.Topic, o.Config.Archive.TopK, log)
	if err != nil {
		return nil, err
	}

	set := &types.IdeaSet{
		Topic:            req.Topic,
		NumIdeas:         n,
		Ideas:            []types.Idea{},
		SourceNodes:      nonNil(res.Kept),
		SourcesUsed:      []types.SourceRecord{},
		SourcesAvailable: []types.SourceRecord{},
	}
	var warn warnings
	warn.add(res.Warning)

	if !res.Sufficient() {
		log.Warn("insufficient evidence, skipping generation", "quality", res.Quality)
		set.Warning = warn.join()
		return set, nil
	}

	fused := sources.Fuse(sources.FromCandidates(res.Kept), nil)
	prompt, err := ideasPrompt(req.Topic, n, fused)
	if err != nil {
		return nil, err
	}

	resp, err := o.Generator.Complete(ctx, llm.Request{
		System:      ideasSystem,
		Prompt:      prompt,
		Temperature: o.temperature(),
		JSON:        true,
	})
	if err != nil {
		log.Error("generation failed", "error", err)
		return nil, fmt.Errorf("generating ideas: %w", err)
	}

	ideas, err := ParseIdeas(resp.Text)
	if err != nil {
		log.Warn("unparseable ideas output", "error", err)
		warn.add(parseIdeasWarning)
		set.SourcesAvailable = fused
		set.Warning = warn.join()
		return set, nil
	}
	if len(ideas) > n {
		ideas = ideas[:n]
	}

	var facts []string
	for _, idea := range ideas {
		facts = append(facts, idea.KeyFacts...)
	}
	tr := citation.Track(strings.Join(facts, "\n"), fused)
	for i := range ideas {
		for j, f := range ideas[i].KeyFacts {
			ideas[i].KeyFacts[j] = citation.Expand(f, fused)
		}
	}

	set.Ideas = ideas
	set.FactCount = len(facts)
	set.SourcesUsed = tr.SourcesUsed
	set.SourcesAvailable = tr.SourcesAvailable
	if len(ideas) > 0 {
		rep := compliance.Check(RenderIdeas(ideas))
		set.ComplianceScore = rep.Score
		log.Debug("editorial compliance", "score", rep.Score, "banned_phrases", rep.BannedPhrases)
	}

	if len(ideas) < n {
		warn.add(fmt.Sprintf("Generated %d of %d requested ideas", len(ideas), n))
	}
	if len(ideas) > 0 {
		if tr.CitationCount == 0 {
			warn.add("No citations found in ideas - all facts must be cited")
		}
		if tr.UniqueSourcesCount < minUniqueSources {
			warn.add(lowDiversity(tr.UniqueSourcesCount))
		}
	}
	set.Warning = warn.join()

	log.Info("ideas generated", "ideas", len(ideas), "facts", set.FactCount, "unique_sources", tr.UniqueSourcesCount)
	return set, nil
}

// ParseIdeas decodes generator output into ideas. It accepts an
// {"ideas": [...]} object or a bare array, optionally wrapped in a
// Markdown code fence. Ideas without a headline are dropped.
func ParseIdeas(text string) ([]types.Idea, error) {
	text = strings.TrimSpace(text)
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return nil, errors.New("no JSON value in output")
	}
	text = text[start:]

	// A decoder stops after the first value, so trailing prose is ignored.
	dec := json.NewDecoder(strings.NewReader(text))
	var ideas []types.Idea
	if text[0] == '[' {
		if err := dec.Decode(&ideas); err != nil {
			return nil, fmt.Errorf("parsing ideas array: %w", err)
		}
	} else {
		var wrapper struct {
			Ideas *[]types.Idea `json:"ideas"`
		}
		if err := dec.Decode(&wrapper); err != nil {
			return nil, fmt.Errorf("parsing ideas object: %w", err)
		}
		if wrapper.Ideas == nil {
			return nil, errors.New(`missing "ideas" field`)
		}
		ideas = *wrapper.Ideas
	}

	out := make([]types.Idea, 0, len(ideas))
	for _, idea := range ideas {
		idea.Headline = strings.TrimSpace(idea.Headline)
		if idea.Headline == "" {
			continue
		}
		idea.KeyFacts = nonNil(idea.KeyFacts)
		out = append(out, idea)
	}
	return out, nil
}

// RenderIdeas formats ideas as Markdown, one H2 section per idea.
func RenderIdeas(ideas []types.Idea) string {
	var b strings.Builder
	for i, idea := range ideas {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", idea.Headline, strings.TrimSpace(idea.Thesis))
		for _, f := range idea.KeyFacts {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		if v := strings.TrimSpace(idea.SuggestedVisualization); v != "" {
			fmt.Fprintf(&b, "\nSuggested visualization: %s\n", v)
		}
	}
	return b.String()
}
