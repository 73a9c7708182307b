// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/newsdesk/pkg/types"
)

func droughtArchive() *fakeArchive {
	return &fakeArchive{fallback: []types.Candidate{
		cand("Farm losses", "Herald", "2024-01-02", "https://herald.example/farm", 0.80),
		cand("Drought deepens", "Tribune", "2024-03-01", "https://tribune.example/drought", 0.95),
		cand("Reservoir levels", "Courier", "2024-02-10", "https://courier.example/reservoir", 0.90),
		cand("Gardening tips", "Gazette", "2023-05-05", "https://gazette.example/garden", 0.40),
	}}
}

func TestClampIdeas(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 3}, {-2, 3}, {1, 1}, {4, 4}, {5, 5}, {9, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampIdeas(tt.in), "input %d", tt.in)
	}
}

func TestIdeasValidation(t *testing.T) {
	gen := &fakeGenerator{reply: replyText("")}
	o := testOrchestrator(droughtArchive(), nil, gen)

	_, err := o.Ideas(context.Background(), IdeasRequest{Topic: "  "})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, gen.requests())
}

func TestIdeasInsufficientEvidence(t *testing.T) {
	tests := []struct {
		name        string
		candidates  []types.Candidate
		wantWarning string
	}{
		{
			name:        "empty archive",
			wantWarning: "No sources found in knowledge base",
		},
		{
			name: "all below threshold",
			candidates: []types.Candidate{
				cand("Gardening tips", "Gazette", "2023-05-05", "", 0.50),
				cand("Recipes", "Gazette", "2023-05-06", "", 0.30),
			},
			wantWarning: "No relevant sources found (best match score: 0.50, threshold: 0.75)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: replyText("should not be called")}
			o := testOrchestrator(&fakeArchive{fallback: tt.candidates}, nil, gen)

			set, err := o.Ideas(context.Background(), IdeasRequest{Topic: "drought"})
			require.NoError(t, err)
			assert.Empty(t, set.Ideas)
			assert.NotNil(t, set.Ideas)
			assert.Empty(t, set.SourceNodes)
			require.NotNil(t, set.Warning)
			assert.Equal(t, tt.wantWarning, *set.Warning)
			assert.Empty(t, gen.requests())
		})
	}
}

func TestIdeas(t *testing.T) {
	archive := droughtArchive()
	gen := &fakeGenerator{reply: replyText(ideasJSON(
		types.Idea{
			Headline:               "The drought reshaping valley farms",
			Thesis:                 "Water scarcity is forcing farmers to change crops.",
			KeyFacts:               []string{"Rainfall fell 40% [1].", "Reservoirs sit at a third of capacity [2]."},
			SuggestedVisualization: "Reservoir levels over time",
		},
		types.Idea{
			Headline: "Counting the cost of dry fields",
			Thesis:   "Losses are spreading from farms to towns.",
			KeyFacts: []string{"Farm losses reached $2bn [3].", "Rainfall fell 40% [1]."},
		},
	))}
	o := testOrchestrator(archive, nil, gen)

	set, err := o.Ideas(context.Background(), IdeasRequest{Topic: "drought", NumIdeas: 2})
	require.NoError(t, err)

	require.Len(t, archive.calls, 1)
	assert.Equal(t, "drought", archive.calls[0].query)
	assert.Equal(t, 5, archive.calls[0].k)

	reqs := gen.requests()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].JSON)
	assert.Empty(t, reqs[0].Tools)
	assert.Contains(t, reqs[0].Prompt, "Source 1:\n- Title: Drought deepens")
	assert.Contains(t, reqs[0].Prompt, "Source 3:\n- Title: Farm losses")
	assert.NotContains(t, reqs[0].Prompt, "Gardening tips")

	assert.Equal(t, "drought", set.Topic)
	assert.Equal(t, 2, set.NumIdeas)
	assert.Len(t, set.SourceNodes, 3)
	require.Len(t, set.Ideas, 2)
	assert.Equal(t, 4, set.FactCount)
	assert.Equal(t, "Rainfall fell 40% [1, Tribune, Drought deepens, 2024-03-01].", set.Ideas[0].KeyFacts[0])
	assert.Equal(t, "Farm losses reached $2bn [3, Herald, Farm losses, 2024-01-02].", set.Ideas[1].KeyFacts[0])

	require.Len(t, set.SourcesUsed, 3)
	assert.Empty(t, set.SourcesAvailable)
	assert.GreaterOrEqual(t, set.ComplianceScore, 0.0)
	assert.LessOrEqual(t, set.ComplianceScore, 1.0)
	assert.Nil(t, set.Warning)
}

func TestIdeasWarnings(t *testing.T) {
	archive := &fakeArchive{fallback: []types.Candidate{
		cand("Drought deepens", "Tribune", "2024-03-01", "", 0.80),
		cand("Reservoir levels", "Courier", "2024-02-10", "", 0.78),
	}}
	gen := &fakeGenerator{reply: replyText("```json\n" + ideasJSON(types.Idea{
		Headline: "Dry spell",
		Thesis:   "It is dry.",
		KeyFacts: []string{"Rainfall fell [1]."},
	}) + "\n```")}
	o := testOrchestrator(archive, nil, gen)

	set, err := o.Ideas(context.Background(), IdeasRequest{Topic: "drought"})
	require.NoError(t, err)
	require.Len(t, set.Ideas, 1)
	require.NotNil(t, set.Warning)
	assert.Equal(t,
		"Limited relevant content found (best score: 0.80). Results may be tangential to query.; "+
			"Generated 1 of 3 requested ideas; "+
			"Low source diversity: only 1 unique sources cited",
		*set.Warning)
	assert.Len(t, set.SourcesUsed, 1)
	assert.Len(t, set.SourcesAvailable, 1)
}

func TestIdeasUncited(t *testing.T) {
	gen := &fakeGenerator{reply: replyText(ideasJSON(
		types.Idea{Headline: "A", Thesis: "a", KeyFacts: []string{"no cite"}},
		types.Idea{Headline: "B", Thesis: "b", KeyFacts: []string{"no cite"}},
		types.Idea{Headline: "C", Thesis: "c", KeyFacts: []string{"no cite"}},
	))}
	o := testOrchestrator(droughtArchive(), nil, gen)

	set, err := o.Ideas(context.Background(), IdeasRequest{Topic: "drought"})
	require.NoError(t, err)
	require.NotNil(t, set.Warning)
	assert.Equal(t,
		"No citations found in ideas - all facts must be cited; Low source diversity: only 0 unique sources cited",
		*set.Warning)
}

func TestIdeasUnparseableOutput(t *testing.T) {
	gen := &fakeGenerator{reply: replyText("I could not think of anything.")}
	o := testOrchestrator(droughtArchive(), nil, gen)

	set, err := o.Ideas(context.Background(), IdeasRequest{Topic: "drought"})
	require.NoError(t, err)
	assert.Empty(t, set.Ideas)
	require.NotNil(t, set.Warning)
	assert.Equal(t, parseIdeasWarning, *set.Warning)
	assert.Len(t, set.SourcesAvailable, 3)
}

func TestIdeasCapabilityErrors(t *testing.T) {
	boom := errors.New("boom")

	o := testOrchestrator(&fakeArchive{err: boom}, nil, &fakeGenerator{reply: replyText("")})
	_, err := o.Ideas(context.Background(), IdeasRequest{Topic: "drought"})
	require.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))

	o = testOrchestrator(droughtArchive(), nil, &fakeGenerator{reply: replyErr(boom)})
	_, err = o.Ideas(context.Background(), IdeasRequest{Topic: "drought"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "generating ideas")
}

func TestParseIdeas(t *testing.T) {
	const one = `{"headline":"H","thesis":"T","key_facts":["f [1]"],"suggested_visualization":"V"}`
	tests := []struct {
		name    string
		text    string
		want    int
		wantErr bool
	}{
		{"object", `{"ideas":[` + one + `]}`, 1, false},
		{"bare array", `[` + one + `,` + one + `]`, 2, false},
		{"code fence", "```json\n{\"ideas\":[" + one + "]}\n```", 1, false},
		{"leading and trailing prose", "Ideas:\n{\"ideas\":[" + one + "]}\nHope this helps.", 1, false},
		{"empty list", `{"ideas":[]}`, 0, false},
		{"missing headline dropped", `[{"thesis":"T"},` + one + `]`, 1, false},
		{"missing ideas field", `{"items":[]}`, 0, true},
		{"no json", "nothing here", 0, true},
		{"malformed", `{"ideas":[{"headline":}]}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdeas(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			for _, idea := range got {
				assert.NotNil(t, idea.KeyFacts)
			}
		})
	}
}

func TestRenderIdeas(t *testing.T) {
	md := RenderIdeas([]types.Idea{
		{Headline: "One", Thesis: "First thesis.", KeyFacts: []string{"a [1]"}, SuggestedVisualization: "chart"},
		{Headline: "Two", Thesis: "Second thesis."},
	})
	assert.Contains(t, md, "## One\n\nFirst thesis.\n\n- a [1]\n")
	assert.Contains(t, md, "Suggested visualization: chart")
	assert.Contains(t, md, "## Two")
}
