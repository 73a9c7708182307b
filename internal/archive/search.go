// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/pdiddy/newsdesk/pkg/types"
)

var termRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Search returns up to k passages matching query, best first. Each
// candidate's score is the bm25 rank mapped into [0,1) as |r|/(|r|+1).
// k <= 0 uses the configured default.
func (s *Store) Search(ctx context.Context, query string, k int) ([]types.Candidate, error) {
	if k <= 0 {
		k = s.topK
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.content, p.section, a.id, a.title, a.source, a.date, a.url, a.keywords, passages_fts.rank
		FROM passages_fts
		JOIN passages p ON p.rowid = passages_fts.rowid
		JOIN articles a ON a.id = p.article_id
		WHERE passages_fts MATCH ?
		ORDER BY passages_fts.rank
		LIMIT ?`, match, k)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var out []types.Candidate
	for rows.Next() {
		var (
			content, section, id, title, source, date, url, kw string
			rank                                               float64
		)
		if err := rows.Scan(&content, &section, &id, &title, &source, &date, &url, &kw, &rank); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		meta := map[string]any{
			"title":      title,
			"source":     source,
			"date":       date,
			"url":        url,
			"article_id": id,
			"section":    section,
		}
		if kw != "" {
			meta["keywords"] = strings.Split(kw, ",")
		}
		out = append(out, types.Candidate{
			Text:     content,
			Metadata: meta,
			Score:    types.Float(normalizeRank(rank)),
		})
	}
	return out, rows.Err()
}

// ftsQuery turns free text into an FTS5 OR query of quoted terms so user
// input cannot inject FTS syntax.
func ftsQuery(query string) string {
	terms := termRe.FindAllString(strings.ToLower(query), -1)
	seen := make(map[string]bool, len(terms))
	var quoted []string
	for _, t := range terms {
		if seen[t] || stopWords[t] {
			continue
		}
		seen[t] = true
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, " OR ")
}

func normalizeRank(rank float64) float64 {
	r := math.Abs(rank)
	return r / (r + 1)
}
