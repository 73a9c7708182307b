// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// passageSize is the target passage length in characters. Passages break
// on paragraph boundaries and may run over for a single long paragraph.
const passageSize = 1024

var (
	frontMatterDelim = []byte("---")
	titleRe          = regexp.MustCompile(`(?m)^#\s+(.+?)\s*$`)
	wordRe           = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_-]{2,}`)
)

var stopWords = map[string]bool{
	"the": true, "and": true, "but": true, "then": true, "else": true, "when": true,
	"from": true, "for": true, "with": true, "are": true, "was": true, "were": true,
	"been": true, "being": true, "have": true, "has": true, "had": true, "does": true,
	"did": true, "not": true, "can": true, "will": true, "should": true, "would": true,
	"could": true, "may": true, "might": true, "must": true, "shall": true, "that": true,
	"this": true, "its": true, "their": true, "they": true, "said": true,
}

// FrontMatter holds the optional YAML header of an article file.
type FrontMatter struct {
	Title  string `yaml:"title"`
	Source string `yaml:"source"`
	Date   string `yaml:"date"`
	URL    string `yaml:"url"`
}

// Article is a parsed article ready for indexing.
type Article struct {
	ID       string
	Path     string
	Title    string
	Source   string
	Date     string
	URL      string
	Keywords []string
	Passages []Passage
}

// Passage is one indexed chunk of an article.
type Passage struct {
	Section string
	Content string
}

// IngestSummary holds counts from an archive indexing run.
type IngestSummary struct {
	Indexed int `json:"indexed" yaml:"indexed"`
	Updated int `json:"updated" yaml:"updated"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest walks dir for .md and .txt articles and indexes them. Files whose
// modification time matches the last indexed run are skipped. Progress
// lines are written to w.
func (s *Store) Ingest(ctx context.Context, dir string, w io.Writer) (IngestSummary, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".txt":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return IngestSummary{}, fmt.Errorf("walking article directory %s: %w", dir, err)
	}
	sort.Strings(paths)

	var summary IngestSummary
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		rel, _ := filepath.Rel(dir, path)
		id := filepath.ToSlash(rel)

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM articles WHERE id = ?`, id,
		).Scan(&stored)
		if err == nil && stored == modTime {
			fmt.Fprintf(w, "skipped %s\n", id)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			summary.Failed++
			continue
		}

		article, err := ParseArticle(id, path, data, info.ModTime())
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			summary.Failed++
			continue
		}

		if err := s.ingestArticle(ctx, article, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", id, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d passages)\n", id, len(article.Passages))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d passages)\n", id, len(article.Passages))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.WriteManifest(ctx); err != nil {
			fmt.Fprintf(w, "warning: manifest write failed: %v\n", err)
		}
	}
	return summary, nil
}

func (s *Store) ingestArticle(ctx context.Context, a *Article, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM passages WHERE article_id = ?`, a.ID); err != nil {
			return fmt.Errorf("deleting old passages: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, source, date, url, path, keywords, file_mod_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, source=excluded.source, date=excluded.date,
			url=excluded.url, path=excluded.path, keywords=excluded.keywords,
			file_mod_time=excluded.file_mod_time`,
		a.ID, a.Title, a.Source, a.Date, a.URL, a.Path, strings.Join(a.Keywords, ","), modTime,
	)
	if err != nil {
		return fmt.Errorf("upserting article: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO passages (article_id, seq, section, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range a.Passages {
		if _, err := stmt.ExecContext(ctx, a.ID, i, p.Section, p.Content); err != nil {
			return fmt.Errorf("inserting passage %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ParseArticle builds an Article from raw file content. Metadata comes from
// YAML front matter when present; the title falls back to the first "# "
// heading and then to the file name, the date to modTime, the source to
// the file name, and the URL to "N/A".
func ParseArticle(id, path string, data []byte, modTime time.Time) (*Article, error) {
	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, err
	}

	a := &Article{
		ID:     id,
		Path:   path,
		Title:  strings.TrimSpace(fm.Title),
		Source: strings.TrimSpace(fm.Source),
		Date:   strings.TrimSpace(fm.Date),
		URL:    strings.TrimSpace(fm.URL),
	}
	if a.Title == "" {
		if m := titleRe.FindStringSubmatch(body); m != nil {
			a.Title = m[1]
		} else {
			a.Title = titleFromFile(path)
		}
	}
	if a.Source == "" {
		a.Source = filepath.Base(path)
	}
	if a.Date == "" {
		a.Date = modTime.Format("2006-01-02")
	}
	if a.URL == "" {
		a.URL = "N/A"
	}
	a.Keywords = keywords(body, 10)
	a.Passages = splitPassages(body, passageSize)
	if len(a.Passages) == 0 {
		return nil, fmt.Errorf("no content")
	}
	return a, nil
}

func splitFrontMatter(data []byte) (FrontMatter, string, error) {
	var fm FrontMatter
	trimmed := bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return fm, string(data), nil
	}
	rest := trimmed[len(frontMatterDelim):]
	end := bytes.Index(rest, append([]byte("\n"), frontMatterDelim...))
	if end < 0 {
		return fm, string(data), nil
	}
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, "", fmt.Errorf("parsing front matter: %w", err)
	}
	body := rest[end+1+len(frontMatterDelim):]
	return fm, strings.TrimLeft(string(body), "\r\n"), nil
}

func titleFromFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// splitPassages groups paragraphs into passages of about size characters.
// A passage carries the previous passage's last paragraph when it is short.
// Headings start a new section and are not indexed as text.
func splitPassages(body string, size int) []Passage {
	var (
		out     []Passage
		section string
		cur     []string
		curLen  int
		fresh   int // paragraphs in cur not yet part of an emitted passage
	)
	emit := func(carry bool) {
		if fresh > 0 {
			out = append(out, Passage{Section: section, Content: strings.Join(cur, "\n\n")})
		}
		last := ""
		if len(cur) > 0 {
			last = cur[len(cur)-1]
		}
		cur, curLen, fresh = nil, 0, 0
		if carry && last != "" && len(last) < size/2 {
			cur, curLen = []string{last}, len(last)
		}
	}

	for _, para := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if strings.HasPrefix(para, "#") {
			emit(false)
			heading, rest, _ := strings.Cut(para, "\n")
			section = strings.TrimSpace(strings.TrimLeft(heading, "#"))
			if para = strings.TrimSpace(rest); para == "" {
				continue
			}
		}
		if fresh > 0 && curLen+len(para) > size {
			emit(true)
		}
		cur = append(cur, para)
		curLen += len(para)
		fresh++
	}
	emit(false)
	return out
}

// keywords returns the n most frequent non-stop words, ties broken
// alphabetically.
func keywords(body string, n int) []string {
	counts := make(map[string]int)
	for _, w := range wordRe.FindAllString(strings.ToLower(body), -1) {
		if !stopWords[w] {
			counts[w]++
		}
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}
