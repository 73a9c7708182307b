// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Idea is one generated article idea.
type Idea struct {
	// Headline is a compelling, non-clickbait headline.
	Headline string `json:"headline" yaml:"headline"`

	// Thesis is a one or two sentence thesis statement.
	Thesis string `json:"thesis" yaml:"thesis"`

	// KeyFacts lists supporting facts, each with expanded inline citations.
	KeyFacts []string `json:"key_facts" yaml:"key_facts"`

	// SuggestedVisualization describes a data visualization for the story.
	SuggestedVisualization string `json:"suggested_visualization" yaml:"suggested_visualization"`
}

// IdeaSet is the output of the ideas task.
type IdeaSet struct {
	Topic    string `json:"topic" yaml:"topic"`
	NumIdeas int    `json:"num_ideas" yaml:"num_ideas"`
	Ideas    []Idea `json:"ideas" yaml:"ideas"`

	// SourceNodes are the archive candidates that cleared the relevance filter.
	SourceNodes []Candidate `json:"source_nodes" yaml:"source_nodes"`

	// FactCount is the total number of key facts across all ideas.
	FactCount int `json:"fact_count" yaml:"fact_count"`

	SourcesUsed      []SourceRecord `json:"sources_used" yaml:"sources_used"`
	SourcesAvailable []SourceRecord `json:"sources_available" yaml:"sources_available"`
	ComplianceScore  float64        `json:"editorial_compliance_score" yaml:"editorial_compliance_score"`

	// Warning is a semicolon-joined list of triggered conditions, or nil.
	Warning *string `json:"warning" yaml:"warning"`
}

// OutlineArtifact is the output of the outline task.
type OutlineArtifact struct {
	Headline               string   `json:"headline" yaml:"headline"`
	Thesis                 string   `json:"thesis" yaml:"thesis"`
	KeyFacts               []string `json:"key_facts" yaml:"key_facts"`
	SuggestedVisualization string   `json:"suggested_visualization,omitempty" yaml:"suggested_visualization,omitempty"`

	// Outline is the generated Markdown outline with expanded citations.
	Outline string `json:"outline" yaml:"outline"`

	// Sources is the full numbered source list, ordered by citation number.
	// Pass it unchanged to the draft task to keep citation numbers stable.
	Sources []SourceRecord `json:"sources" yaml:"sources"`

	WordCount        int            `json:"word_count" yaml:"word_count"`
	SourcesUsed      []SourceRecord `json:"sources_used" yaml:"sources_used"`
	SourcesAvailable []SourceRecord `json:"sources_available" yaml:"sources_available"`
	ComplianceScore  float64        `json:"editorial_compliance_score" yaml:"editorial_compliance_score"`
	Warning          *string        `json:"warning" yaml:"warning"`
}

// DraftArtifact is the output of the draft task.
type DraftArtifact struct {
	Headline string `json:"headline" yaml:"headline"`
	Thesis   string `json:"thesis" yaml:"thesis"`

	// Draft is the Markdown article with citations expanded to
	// [N, source, title, date].
	Draft string `json:"draft" yaml:"draft"`

	// WordCount is counted on the expanded draft.
	WordCount int `json:"word_count" yaml:"word_count"`

	SourcesUsed       []SourceRecord `json:"sources_used" yaml:"sources_used"`
	SourcesAvailable  []SourceRecord `json:"sources_available" yaml:"sources_available"`
	SectionsGenerated []string       `json:"sections_generated" yaml:"sections_generated"`
	ComplianceScore   float64        `json:"editorial_compliance_score" yaml:"editorial_compliance_score"`
	Warning           *string        `json:"warning" yaml:"warning"`
}
