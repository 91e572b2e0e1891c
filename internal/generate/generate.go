// Package generate wraps the Generative AI API behind a small backend
// interface: topic idea generation, article expansion, and the
// topic-similarity verdict used for deduplication.
package generate

import "context"

// IdeaCandidate is a freshly generated topic idea, not yet deduplicated
// or persisted.
type IdeaCandidate struct {
	Topic       string `json:"topic" yaml:"topic"`
	Description string `json:"description" yaml:"description"`
}

// ArticleDraft is a generated article before persistence.
type ArticleDraft struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"content" yaml:"content"`
}

// SimilarityVerdict is the oracle's judgment on whether a candidate
// topic overlaps an existing one.
type SimilarityVerdict struct {
	Similar bool   `json:"is_similar" yaml:"is_similar"`
	Reason  string `json:"reason" yaml:"reason"`
}

// Backend abstracts the Generative AI API so tests can supply a mock.
type Backend interface {
	// GenerateIdeas requests count topic ideas for a category.
	GenerateIdeas(ctx context.Context, count int, category string) ([]IdeaCandidate, error)

	// GenerateArticle expands a topic into a titled article of roughly
	// targetWords words.
	GenerateArticle(ctx context.Context, topic, description string, targetWords int) (*ArticleDraft, error)

	// CheckSimilarity asks whether topic substantially overlaps any of
	// the existing topics. Callers treat an error as "not similar":
	// idea collection stays available when the oracle is not.
	CheckSimilarity(ctx context.Context, topic string, existing []string) (SimilarityVerdict, error)
}
