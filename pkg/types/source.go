// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the newsdesk pipeline.
// Implements: source records (archive and web evidence), raw retrieval
// candidates, task artifacts (ideas, outline, draft), and configuration.
package types

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// UnknownField is the fallback for missing title, origin, and date metadata.
	UnknownField = "Unknown"

	// NoURL is the sentinel for evidence without a URL.
	NoURL = "N/A"
)

// SourceKind identifies where a piece of evidence came from.
type SourceKind string

const (
	KindArchive SourceKind = "archive"
	KindWeb     SourceKind = "web"
)

// Candidate is one raw, scored hit from the archive retrieval capability.
type Candidate struct {
	// Text is the retrieved passage.
	Text string `json:"text" yaml:"text"`

	// Metadata holds the passage's article metadata (title, source, date, url, ...).
	Metadata map[string]any `json:"metadata" yaml:"metadata"`

	// Score is the similarity score in [0,1]. Nil when the backend reported none.
	Score *float64 `json:"relevance_score" yaml:"relevance_score"`
}

// ScoreValue returns the candidate score, treating a missing score as 0.
func (c Candidate) ScoreValue() float64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

// WebResult is one hit from the web search capability.
type WebResult struct {
	Title         string   `json:"title" yaml:"title"`
	URL           string   `json:"url" yaml:"url"`
	PublishedDate string   `json:"published_date" yaml:"published_date"`
	Content       string   `json:"content" yaml:"content"`
	Score         *float64 `json:"score" yaml:"score"`
}

// WebResponse is the full web search response: ranked results plus an
// optional provider-written answer summary.
type WebResponse struct {
	Results []WebResult `json:"results" yaml:"results"`
	Answer  string      `json:"answer,omitempty" yaml:"answer,omitempty"`
}

// SourceRecord is one piece of retrievable evidence, independent of origin.
// CitationNumber is zero until the record has been numbered by fusion.
type SourceRecord struct {
	Title          string     `json:"title" yaml:"title"`
	Origin         string     `json:"source" yaml:"source"`
	Kind           SourceKind `json:"source_type" yaml:"source_type"`
	Date           string     `json:"date" yaml:"date"`
	URL            string     `json:"url" yaml:"url"`
	RelevanceScore *float64   `json:"relevance_score" yaml:"relevance_score"`
	Excerpt        string     `json:"text" yaml:"text"`
	CitationNumber int        `json:"citation_number,omitempty" yaml:"citation_number,omitempty"`
}

// Score returns the relevance score, treating a missing score as 0.
func (r SourceRecord) Score() float64 {
	if r.RelevanceScore == nil {
		return 0
	}
	return *r.RelevanceScore
}

// Key identifies the record for de-duplication across retrievals. Records
// with a real URL are keyed by it; others by kind, title, and origin.
func (r SourceRecord) Key() string {
	if r.URL != "" && r.URL != NoURL {
		return "url:" + strings.TrimRight(strings.ToLower(r.URL), "/")
	}
	return fmt.Sprintf("%s:%s:%s", r.Kind, strings.ToLower(r.Title), strings.ToLower(r.Origin))
}

// NewArchiveRecord converts an archive candidate into a SourceRecord.
// Missing metadata falls back to UnknownField or NoURL; it never fails.
func NewArchiveRecord(c Candidate) SourceRecord {
	return SourceRecord{
		Title:          metaString(c.Metadata, "title", UnknownField),
		Origin:         metaString(c.Metadata, "source", UnknownField),
		Kind:           KindArchive,
		Date:           metaString(c.Metadata, "date", UnknownField),
		URL:            metaString(c.Metadata, "url", NoURL),
		RelevanceScore: copyScore(c.Score),
		Excerpt:        c.Text,
	}
}

// NewWebRecord converts a web result into a SourceRecord. The origin is the
// URL's host (without "www."), or "Web" when the URL has no host.
func NewWebRecord(w WebResult) SourceRecord {
	rec := SourceRecord{
		Title:          orDefault(w.Title, UnknownField),
		Origin:         webOrigin(w.URL),
		Kind:           KindWeb,
		Date:           orDefault(w.PublishedDate, UnknownField),
		URL:            orDefault(w.URL, NoURL),
		RelevanceScore: copyScore(w.Score),
		Excerpt:        w.Content,
	}
	return rec
}

func webOrigin(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "Web"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func metaString(meta map[string]any, key, fallback string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return fallback
	}
	return s
}

func orDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

func copyScore(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to v, for building optional scores.
func Float(v float64) *float64 {
	return &v
}
