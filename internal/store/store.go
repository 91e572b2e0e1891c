// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists Ideas and Articles in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/content-engine/pkg/types"
)

const defaultDBPath = "content.db"

// ErrDuplicateTopic reports that an idea with the same topic already
// exists. The UNIQUE constraint on ideas.topic is the ultimate authority
// on duplication; callers check with errors.Is.
var ErrDuplicateTopic = errors.New("duplicate topic")

// Store manages the content SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBPath
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ideas (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			content_generated BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			idea_id INTEGER NOT NULL REFERENCES ideas(id),
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_topic ON ideas(topic)`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_content_generated ON ideas(content_generated)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_idea_id ON articles(idea_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// InsertIdea stores a new idea and returns its ID. A topic that already
// exists yields ErrDuplicateTopic; all other failures are reported as-is.
func (s *Store) InsertIdea(ctx context.Context, topic, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ideas (topic, description) VALUES (?, ?)`,
		topic, description,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return 0, fmt.Errorf("inserting idea %q: %w", topic, ErrDuplicateTopic)
		}
		return 0, fmt.Errorf("inserting idea %q: %w", topic, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading idea id: %w", err)
	}
	return id, nil
}

// TopicExists reports whether an idea with exactly this topic is stored.
func (s *Store) TopicExists(ctx context.Context, topic string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ideas WHERE topic = ?`, topic,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking topic %q: %w", topic, err)
	}
	return count > 0, nil
}

// ListPendingIdeas returns up to limit ideas without generated content,
// oldest first. The id tiebreak keeps the order stable when several
// ideas share a creation timestamp.
func (s *Store) ListPendingIdeas(ctx context.Context, limit int) ([]types.Idea, error) {
	query := `SELECT id, topic, description, created_at, content_generated
		FROM ideas
		WHERE content_generated = FALSE
		ORDER BY created_at ASC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pending ideas: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

// ListIdeas returns all ideas, newest first.
func (s *Store) ListIdeas(ctx context.Context) ([]types.Idea, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, description, created_at, content_generated
		 FROM ideas
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer rows.Close()

	return scanIdeas(rows)
}

func scanIdeas(rows *sql.Rows) ([]types.Idea, error) {
	var ideas []types.Idea
	for rows.Next() {
		var idea types.Idea
		if err := rows.Scan(
			&idea.ID, &idea.Topic, &idea.Description,
			&idea.CreatedAt, &idea.ContentGenerated,
		); err != nil {
			return nil, fmt.Errorf("scanning idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// ListAllTopics returns every stored topic, oldest first. The dedup
// pipeline uses this as the candidate set for similarity checks.
func (s *Store) ListAllTopics(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT topic FROM ideas ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// InsertArticleAndMarkGenerated stores an article and flips the parent
// idea's content_generated flag in a single transaction, so no reader
// ever observes one write without the other.
func (s *Store) InsertArticleAndMarkGenerated(ctx context.Context, ideaID int64, title, body string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO articles (idea_id, title, body) VALUES (?, ?, ?)`,
		ideaID, title, body,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting article for idea %d: %w", ideaID, err)
	}

	articleID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading article id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE ideas SET content_generated = TRUE WHERE id = ?`, ideaID,
	); err != nil {
		return 0, fmt.Errorf("marking idea %d generated: %w", ideaID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing article for idea %d: %w", ideaID, err)
	}
	return articleID, nil
}

// ArticleByIdea returns the article generated for an idea, or nil when
// none exists yet.
func (s *Store) ArticleByIdea(ctx context.Context, ideaID int64) (*types.Article, error) {
	var a types.Article
	err := s.db.QueryRowContext(ctx,
		`SELECT id, idea_id, title, body, created_at
		 FROM articles WHERE idea_id = ?
		 ORDER BY created_at ASC, id ASC LIMIT 1`, ideaID,
	).Scan(&a.ID, &a.IdeaID, &a.Title, &a.Body, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying article for idea %d: %w", ideaID, err)
	}
	return &a, nil
}

// ListArticles returns all articles joined with their idea topic, oldest first.
func (s *Store) ListArticles(ctx context.Context) ([]ArticleWithTopic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.idea_id, a.title, a.body, a.created_at, i.topic
		 FROM articles a
		 JOIN ideas i ON a.idea_id = i.id
		 ORDER BY a.created_at ASC, a.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []ArticleWithTopic
	for rows.Next() {
		var a ArticleWithTopic
		if err := rows.Scan(&a.ID, &a.IdeaID, &a.Title, &a.Body, &a.CreatedAt, &a.Topic); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleWithTopic is an article joined with its parent idea's topic.
type ArticleWithTopic struct {
	types.Article
	Topic string
}

// Stats returns store counters.
func (s *Store) Stats(ctx context.Context) (types.Stats, error) {
	var stats types.Stats

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ideas`,
	).Scan(&stats.TotalIdeas); err != nil {
		return types.Stats{}, fmt.Errorf("counting ideas: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ideas WHERE content_generated = TRUE`,
	).Scan(&stats.IdeasWithContent); err != nil {
		return types.Stats{}, fmt.Errorf("counting generated ideas: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles`,
	).Scan(&stats.TotalArticles); err != nil {
		return types.Stats{}, fmt.Errorf("counting articles: %w", err)
	}

	stats.PendingIdeas = stats.TotalIdeas - stats.IdeasWithContent
	return stats, nil
}
