// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// frontMatter is the YAML block written at the top of each exported article.
type frontMatter struct {
	Title     string    `yaml:"title"`
	Topic     string    `yaml:"topic"`
	IdeaID    int64     `yaml:"idea_id"`
	CreatedAt time.Time `yaml:"created_at"`
}

// ExportArticles writes every stored article to dir as a Markdown file
// named NNN-slug.md with a YAML front matter block. It returns the
// number of files written.
func (s *Store) ExportArticles(ctx context.Context, dir string) (int, error) {
	articles, err := s.ListArticles(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating export directory: %w", err)
	}

	for _, a := range articles {
		fm := frontMatter{
			Title:     a.Title,
			Topic:     a.Topic,
			IdeaID:    a.IdeaID,
			CreatedAt: a.CreatedAt,
		}
		meta, err := yaml.Marshal(&fm)
		if err != nil {
			return 0, fmt.Errorf("marshaling front matter for article %d: %w", a.ID, err)
		}

		name := fmt.Sprintf("%03d-%s.md", a.ID, slugify(a.Topic))
		content := fmt.Sprintf("---\n%s---\n\n# %s\n\n%s\n", meta, a.Title, a.Body)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", name, err)
		}
	}

	return len(articles), nil
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a topic into a lowercase hyphenated file name fragment.
func slugify(topic string) string {
	slug := strings.ToLower(strings.TrimSpace(topic))
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
