// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/store"
)

// CollectSummary holds counts from one idea-collection run.
type CollectSummary struct {
	Accepted   int
	Duplicates int
	Skipped    int
}

// Total returns the number of candidates processed.
func (s CollectSummary) Total() int {
	return s.Accepted + s.Duplicates + s.Skipped
}

// CollectIdeas requests a batch of topic ideas from the backend and
// persists the ones that pass the duplicate gate. Candidates are
// processed strictly in arrival order so that a later candidate sees
// earlier acceptances from the same batch as existing topics.
//
// The gate has two tiers: an exact topic match against the store, then
// the similarity oracle. The oracle fails open: an oracle error admits
// the candidate rather than blocking ingestion. The store's UNIQUE
// constraint remains the final authority: a constraint rejection counts
// as a duplicate, never an error.
func (r *Runner) CollectIdeas(ctx context.Context) (CollectSummary, error) {
	var summary CollectSummary

	candidates, err := r.backend.GenerateIdeas(ctx, r.cfg.IdeasPerCycle, r.cfg.Category)
	if err != nil {
		// Transient backend failure: skip collection this cycle.
		r.log.Warn("idea generation failed", zap.Error(err))
		return summary, nil
	}
	if len(candidates) == 0 {
		r.log.Warn("no ideas generated")
		return summary, nil
	}

	known, err := r.store.ListAllTopics(ctx)
	if err != nil {
		return summary, fmt.Errorf("listing known topics: %w", err)
	}

	for _, cand := range candidates {
		topic := strings.TrimSpace(cand.Topic)
		description := strings.TrimSpace(cand.Description)

		if topic == "" {
			r.log.Warn("skipping idea with empty topic")
			summary.Skipped++
			continue
		}

		exists, err := r.store.TopicExists(ctx, topic)
		if err != nil {
			return summary, fmt.Errorf("checking topic %q: %w", topic, err)
		}
		if exists {
			r.log.Info("duplicate topic (exact match)", zap.String("topic", topic))
			summary.Duplicates++
			continue
		}

		verdict, err := r.backend.CheckSimilarity(ctx, topic, known)
		if err != nil {
			// Fail open: collection availability beats duplicate precision.
			r.log.Warn("similarity check failed, treating topic as unique",
				zap.String("topic", topic), zap.Error(err))
			verdict = generate.SimilarityVerdict{}
		}
		if verdict.Similar {
			r.log.Info("duplicate topic (similar)",
				zap.String("topic", topic), zap.String("reason", verdict.Reason))
			summary.Duplicates++
			continue
		}

		id, err := r.store.InsertIdea(ctx, topic, description)
		if errors.Is(err, store.ErrDuplicateTopic) {
			r.log.Info("duplicate topic (constraint)", zap.String("topic", topic))
			summary.Duplicates++
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("storing idea %q: %w", topic, err)
		}

		r.log.Info("added idea", zap.Int64("id", id), zap.String("topic", topic))
		known = append(known, topic)
		summary.Accepted++
	}

	r.log.Info("idea collection complete",
		zap.Int("accepted", summary.Accepted),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}
