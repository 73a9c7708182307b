// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ArticleEntry describes one indexed article.
type ArticleEntry struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Source   string   `json:"source" yaml:"source"`
	Date     string   `json:"date" yaml:"date"`
	URL      string   `json:"url" yaml:"url"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Passages int      `json:"passages" yaml:"passages"`
}

// Articles lists indexed articles ordered by date, newest first.
func (s *Store) Articles(ctx context.Context) ([]ArticleEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.title, a.source, a.date, a.url, a.keywords, count(p.rowid)
		FROM articles a
		LEFT JOIN passages p ON p.article_id = a.id
		GROUP BY a.id
		ORDER BY a.date DESC, a.id`)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var out []ArticleEntry
	for rows.Next() {
		var (
			e  ArticleEntry
			kw string
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Source, &e.Date, &e.URL, &kw, &e.Passages); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if kw != "" {
			e.Keywords = strings.Split(kw, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// WriteManifest writes the article list to <dir>/index/articles.yaml and
// returns its path.
func (s *Store) WriteManifest(ctx context.Context) (string, error) {
	entries, err := s.Articles(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, indexDir, "articles.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return path, nil
}
