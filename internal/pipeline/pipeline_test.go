package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/store"
	"github.com/pdiddy/content-engine/pkg/types"
)

// --- mock backend ---

// similarityCall records one oracle invocation for assertions.
type similarityCall struct {
	topic    string
	existing []string
}

type mockBackend struct {
	ideas    []generate.IdeaCandidate
	ideasErr error

	// similarFn decides the verdict per call; nil means never similar.
	similarFn  func(topic string, existing []string) (generate.SimilarityVerdict, error)
	simCalls   []similarityCall
	articleFn  func(topic string) (*generate.ArticleDraft, error)
	articleErr error
}

func (m *mockBackend) GenerateIdeas(_ context.Context, count int, _ string) ([]generate.IdeaCandidate, error) {
	if m.ideasErr != nil {
		return nil, m.ideasErr
	}
	if len(m.ideas) > count {
		return m.ideas[:count], nil
	}
	return m.ideas, nil
}

func (m *mockBackend) GenerateArticle(_ context.Context, topic, _ string, _ int) (*generate.ArticleDraft, error) {
	if m.articleErr != nil {
		return nil, m.articleErr
	}
	if m.articleFn != nil {
		return m.articleFn(topic)
	}
	return &generate.ArticleDraft{Title: "About " + topic, Body: "Article on " + topic + "."}, nil
}

func (m *mockBackend) CheckSimilarity(_ context.Context, topic string, existing []string) (generate.SimilarityVerdict, error) {
	m.simCalls = append(m.simCalls, similarityCall{topic: topic, existing: append([]string(nil), existing...)})
	if m.similarFn == nil {
		return generate.SimilarityVerdict{}, nil
	}
	return m.similarFn(topic, existing)
}

// --- test helpers ---

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "content.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRunner(s Store, backend generate.Backend) *Runner {
	return New(s, backend, types.GeneratorConfig{}, nil)
}

func candidates(topics ...string) []generate.IdeaCandidate {
	var out []generate.IdeaCandidate
	for _, topic := range topics {
		out = append(out, generate.IdeaCandidate{Topic: topic, Description: "about " + topic})
	}
	return out
}

func mustStats(t *testing.T, s *store.Store) types.Stats {
	t.Helper()
	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return stats
}

// --- idea collection ---

func TestCollectIdeasAcceptsDistinctTopics(t *testing.T) {
	s := testStore(t)
	backend := &mockBackend{ideas: candidates("Binary Search Trees", "Hash Tables", "Goroutine Pools")}
	r := testRunner(s, backend)

	summary, err := r.CollectIdeas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Accepted != 3 || summary.Duplicates != 0 || summary.Skipped != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	stats := mustStats(t, s)
	if stats.PendingIdeas != 3 {
		t.Errorf("expected 3 pending ideas, got %d", stats.PendingIdeas)
	}
}

func TestCollectIdeasExactDuplicate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.InsertIdea(ctx, "Binary Search Trees", ""); err != nil {
		t.Fatal(err)
	}

	backend := &mockBackend{ideas: candidates("Binary Search Trees")}
	r := testRunner(s, backend)

	summary, err := r.CollectIdeas(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Duplicates != 1 || summary.Accepted != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	// The exact tier decides before the oracle is consulted.
	if len(backend.simCalls) != 0 {
		t.Errorf("expected no similarity calls, got %d", len(backend.simCalls))
	}
	if stats := mustStats(t, s); stats.TotalIdeas != 1 {
		t.Errorf("store changed: %+v", stats)
	}
}

func TestCollectIdeasTrimsAndSkipsEmptyTopics(t *testing.T) {
	s := testStore(t)
	backend := &mockBackend{ideas: []generate.IdeaCandidate{
		{Topic: "  Padded Topic  ", Description: " padded "},
		{Topic: "   "},
	}}
	r := testRunner(s, backend)

	summary, err := r.CollectIdeas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Accepted != 1 || summary.Skipped != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	exists, err := s.TopicExists(context.Background(), "Padded Topic")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("topic not stored trimmed")
	}
}

func TestCollectIdeasBatchInternalSimilarity(t *testing.T) {
	s := testStore(t)
	// B duplicates A, which is accepted earlier in the same batch.
	backend := &mockBackend{
		ideas: candidates("Graph Traversal Basics", "Intro to Graph Traversal"),
		similarFn: func(topic string, existing []string) (generate.SimilarityVerdict, error) {
			if topic == "Intro to Graph Traversal" {
				return generate.SimilarityVerdict{Similar: true, Reason: "overlaps graph traversal"}, nil
			}
			return generate.SimilarityVerdict{}, nil
		},
	}
	r := testRunner(s, backend)

	summary, err := r.CollectIdeas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Accepted != 1 || summary.Duplicates != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	// The oracle call for B must have seen A as an existing topic.
	if len(backend.simCalls) != 2 {
		t.Fatalf("expected 2 similarity calls, got %d", len(backend.simCalls))
	}
	second := backend.simCalls[1]
	found := false
	for _, topic := range second.existing {
		if topic == "Graph Traversal Basics" {
			found = true
		}
	}
	if !found {
		t.Errorf("second check did not see same-batch acceptance: %v", second.existing)
	}
}

func TestCollectIdeasOracleFailureFailsOpen(t *testing.T) {
	s := testStore(t)
	if _, err := s.InsertIdea(context.Background(), "Existing Topic", ""); err != nil {
		t.Fatal(err)
	}

	backend := &mockBackend{
		ideas: candidates("Fresh Topic"),
		similarFn: func(string, []string) (generate.SimilarityVerdict, error) {
			return generate.SimilarityVerdict{}, fmt.Errorf("oracle unavailable")
		},
	}
	r := testRunner(s, backend)

	summary, err := r.CollectIdeas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Accepted != 1 {
		t.Errorf("oracle failure must admit the candidate: %+v", summary)
	}
}

func TestCollectIdeasBackendFailureSkipsCycle(t *testing.T) {
	s := testStore(t)
	backend := &mockBackend{ideasErr: fmt.Errorf("api down")}
	r := testRunner(s, backend)

	summary, err := r.CollectIdeas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total() != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

// raceStore simulates the exact-match tier missing a topic the UNIQUE
// constraint then rejects.
type raceStore struct {
	*store.Store
}

func (raceStore) TopicExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestCollectIdeasConstraintIsFinalAuthority(t *testing.T) {
	s := testStore(t)
	if _, err := s.InsertIdea(context.Background(), "Binary Search Trees", ""); err != nil {
		t.Fatal(err)
	}

	backend := &mockBackend{ideas: candidates("Binary Search Trees")}
	r := New(raceStore{s}, backend, types.GeneratorConfig{}, nil)

	summary, err := r.CollectIdeas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if summary.Duplicates != 1 || summary.Accepted != 0 {
		t.Errorf("constraint rejection must count as duplicate: %+v", summary)
	}
}

// --- content expansion ---

func TestExpandPendingGeneratesArticle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	ideaID, err := s.InsertIdea(ctx, "Binary Search Trees", "Tree basics")
	if err != nil {
		t.Fatal(err)
	}

	r := testRunner(s, &mockBackend{})
	before := mustStats(t, s)

	summary, err := r.ExpandPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Generated != 1 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	after := mustStats(t, s)
	if after.PendingIdeas != before.PendingIdeas-1 {
		t.Errorf("pending not decremented: before %+v after %+v", before, after)
	}
	if after.TotalArticles != before.TotalArticles+1 {
		t.Errorf("articles not incremented: before %+v after %+v", before, after)
	}

	article, err := s.ArticleByIdea(ctx, ideaID)
	if err != nil {
		t.Fatal(err)
	}
	if article == nil {
		t.Fatal("no article stored")
	}
}

func TestExpandPendingFailureLeavesIdeaPending(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.InsertIdea(ctx, "Binary Search Trees", ""); err != nil {
		t.Fatal(err)
	}

	r := testRunner(s, &mockBackend{articleErr: fmt.Errorf("generation failed")})
	before := mustStats(t, s)

	summary, err := r.ExpandPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 1 || summary.Generated != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if after := mustStats(t, s); after != before {
		t.Errorf("stats changed on failure: before %+v after %+v", before, after)
	}

	// Still eligible next cycle.
	pending, err := s.ListPendingIdeas(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Errorf("expected idea to remain pending, got %d", len(pending))
	}
}

func TestExpandPendingIncompleteDraftLeavesIdeaPending(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.InsertIdea(ctx, "Binary Search Trees", ""); err != nil {
		t.Fatal(err)
	}

	backend := &mockBackend{articleFn: func(string) (*generate.ArticleDraft, error) {
		return &generate.ArticleDraft{Title: "Title only"}, nil
	}}
	r := testRunner(s, backend)

	summary, err := r.ExpandPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 1 {
		t.Errorf("incomplete draft must count as failure: %+v", summary)
	}
	if stats := mustStats(t, s); stats.TotalArticles != 0 {
		t.Errorf("article stored from incomplete draft: %+v", stats)
	}
}

func TestExpandPendingHonorsBatchLimitOldestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	topics := []string{"First", "Second", "Third", "Fourth", "Fifth"}
	for _, topic := range topics {
		if _, err := s.InsertIdea(ctx, topic, ""); err != nil {
			t.Fatal(err)
		}
	}

	var expanded []string
	backend := &mockBackend{articleFn: func(topic string) (*generate.ArticleDraft, error) {
		expanded = append(expanded, topic)
		return &generate.ArticleDraft{Title: topic, Body: "body"}, nil
	}}
	r := New(s, backend, types.GeneratorConfig{ArticlesPerCycle: 2}, nil)

	summary, err := r.ExpandPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Generated != 2 {
		t.Fatalf("expected 2 generated, got %+v", summary)
	}
	if len(expanded) != 2 || expanded[0] != "First" || expanded[1] != "Second" {
		t.Errorf("expected oldest-first expansion, got %v", expanded)
	}
}

// --- cycle ---

func TestRunCycleStagesAreIndependent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	if _, err := s.InsertIdea(ctx, "Pending Topic", ""); err != nil {
		t.Fatal(err)
	}

	// Idea generation fails; expansion must still run.
	backend := &mockBackend{ideasErr: fmt.Errorf("api down")}
	r := testRunner(s, backend)

	cycle := r.RunCycle(ctx)
	if cycle.Collect.Total() != 0 {
		t.Errorf("unexpected collect summary: %+v", cycle.Collect)
	}
	if cycle.Expand.Generated != 1 {
		t.Errorf("expansion did not run: %+v", cycle.Expand)
	}
	if cycle.After.PendingIdeas != 0 {
		t.Errorf("unexpected after stats: %+v", cycle.After)
	}
}

func TestRunCycleFullFlow(t *testing.T) {
	s := testStore(t)
	backend := &mockBackend{ideas: candidates("Alpha", "Beta", "Gamma", "Delta")}
	r := New(s, backend, types.GeneratorConfig{IdeasPerCycle: 4, ArticlesPerCycle: 3}, nil)

	cycle := r.RunCycle(context.Background())
	if cycle.Collect.Accepted != 4 {
		t.Errorf("unexpected collect summary: %+v", cycle.Collect)
	}
	if cycle.Expand.Generated != 3 {
		t.Errorf("unexpected expand summary: %+v", cycle.Expand)
	}
	want := types.Stats{TotalIdeas: 4, IdeasWithContent: 3, PendingIdeas: 1, TotalArticles: 3}
	if cycle.After != want {
		t.Errorf("expected %+v, got %+v", want, cycle.After)
	}
}
