// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the generation cycle: collect deduplicated topic
// ideas, then expand pending ideas into articles.
package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Store is the persistence surface the pipelines consume.
// *store.Store implements it; tests may substitute fakes.
type Store interface {
	InsertIdea(ctx context.Context, topic, description string) (int64, error)
	TopicExists(ctx context.Context, topic string) (bool, error)
	ListPendingIdeas(ctx context.Context, limit int) ([]types.Idea, error)
	ListAllTopics(ctx context.Context) ([]string, error)
	InsertArticleAndMarkGenerated(ctx context.Context, ideaID int64, title, body string) (int64, error)
	Stats(ctx context.Context) (types.Stats, error)
}

// Runner drives generation cycles against a store and an AI backend.
type Runner struct {
	store   Store
	backend generate.Backend
	cfg     types.GeneratorConfig
	log     *zap.Logger
}

// New builds a Runner, applying defaults for unset generator settings.
func New(store Store, backend generate.Backend, cfg types.GeneratorConfig, log *zap.Logger) *Runner {
	if cfg.IdeasPerCycle <= 0 {
		cfg.IdeasPerCycle = 5
	}
	if cfg.ArticlesPerCycle <= 0 {
		cfg.ArticlesPerCycle = 3
	}
	if cfg.Category == "" {
		cfg.Category = "programming"
	}
	if cfg.TargetWords <= 0 {
		cfg.TargetWords = 800
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		store:   store,
		backend: backend,
		cfg:     cfg,
		log:     log,
	}
}

// CycleSummary holds the counters from one full generation cycle.
type CycleSummary struct {
	Collect CollectSummary
	Expand  ExpandSummary
	Before  types.Stats
	After   types.Stats
}

// RunCycle runs idea collection followed by content expansion. Each
// stage swallows and logs its own errors; one stage failing never
// prevents the other from running, and a cycle is never rolled back.
func (r *Runner) RunCycle(ctx context.Context) CycleSummary {
	var cycle CycleSummary

	if before, err := r.store.Stats(ctx); err != nil {
		r.log.Error("reading stats failed", zap.Error(err))
	} else {
		cycle.Before = before
		r.log.Info("cycle starting",
			zap.Int("total_ideas", before.TotalIdeas),
			zap.Int("pending_ideas", before.PendingIdeas),
			zap.Int("total_articles", before.TotalArticles),
		)
	}

	collect, err := r.CollectIdeas(ctx)
	if err != nil {
		r.log.Error("idea collection failed", zap.Error(err))
	}
	cycle.Collect = collect

	expand, err := r.ExpandPending(ctx)
	if err != nil {
		r.log.Error("content expansion failed", zap.Error(err))
	}
	cycle.Expand = expand

	if after, err := r.store.Stats(ctx); err != nil {
		r.log.Error("reading stats failed", zap.Error(err))
	} else {
		cycle.After = after
		r.log.Info("cycle complete",
			zap.Int("ideas_accepted", collect.Accepted),
			zap.Int("ideas_duplicate", collect.Duplicates),
			zap.Int("articles_generated", expand.Generated),
			zap.Int("pending_ideas", after.PendingIdeas),
		)
	}

	return cycle
}
