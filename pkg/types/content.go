// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Idea is a persisted topic candidate awaiting or having received an article.
type Idea struct {
	ID          int64     `json:"id" yaml:"id"`
	Topic       string    `json:"topic" yaml:"topic"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`

	// ContentGenerated flips to true exactly once, in the same
	// transaction that inserts the idea's Article.
	ContentGenerated bool `json:"content_generated" yaml:"content_generated"`
}

// Article is the expanded content piece tied to exactly one Idea.
type Article struct {
	ID        int64     `json:"id" yaml:"id"`
	IdeaID    int64     `json:"idea_id" yaml:"idea_id"`
	Title     string    `json:"title" yaml:"title"`
	Body      string    `json:"body" yaml:"body"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Stats summarizes the store contents at a point in time.
type Stats struct {
	TotalIdeas       int `json:"total_ideas" yaml:"total_ideas"`
	IdeasWithContent int `json:"ideas_with_content" yaml:"ideas_with_content"`
	PendingIdeas     int `json:"pending_ideas" yaml:"pending_ideas"`
	TotalArticles    int `json:"total_articles" yaml:"total_articles"`
}
