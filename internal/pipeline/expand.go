// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ExpandSummary holds counts from one content-expansion run.
type ExpandSummary struct {
	Generated int
	Failed    int
}

// Total returns the number of pending ideas processed.
func (s ExpandSummary) Total() int {
	return s.Generated + s.Failed
}

// ExpandPending selects up to ArticlesPerCycle ideas without generated
// content, oldest first, and expands each into an article. The article
// insert and the idea's flag flip are one store transaction. A failed
// generation leaves the idea pending so a future cycle retries it;
// there is no retry within a cycle.
func (r *Runner) ExpandPending(ctx context.Context) (ExpandSummary, error) {
	var summary ExpandSummary

	pending, err := r.store.ListPendingIdeas(ctx, r.cfg.ArticlesPerCycle)
	if err != nil {
		return summary, fmt.Errorf("listing pending ideas: %w", err)
	}
	if len(pending) == 0 {
		r.log.Info("no pending ideas to expand")
		return summary, nil
	}

	r.log.Info("expanding pending ideas", zap.Int("count", len(pending)))

	for _, idea := range pending {
		draft, err := r.backend.GenerateArticle(ctx, idea.Topic, idea.Description, r.cfg.TargetWords)
		if err != nil {
			r.log.Error("article generation failed",
				zap.Int64("idea_id", idea.ID), zap.String("topic", idea.Topic), zap.Error(err))
			summary.Failed++
			continue
		}
		if draft == nil || draft.Title == "" || draft.Body == "" {
			r.log.Error("article response incomplete",
				zap.Int64("idea_id", idea.ID), zap.String("topic", idea.Topic))
			summary.Failed++
			continue
		}

		articleID, err := r.store.InsertArticleAndMarkGenerated(ctx, idea.ID, draft.Title, draft.Body)
		if err != nil {
			r.log.Error("storing article failed",
				zap.Int64("idea_id", idea.ID), zap.String("topic", idea.Topic), zap.Error(err))
			summary.Failed++
			continue
		}

		r.log.Info("stored article",
			zap.Int64("article_id", articleID),
			zap.Int64("idea_id", idea.ID),
			zap.String("title", draft.Title),
		)
		summary.Generated++
	}

	r.log.Info("content expansion complete",
		zap.Int("generated", summary.Generated),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}
