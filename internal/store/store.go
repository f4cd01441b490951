package store

import (
	"context"
	"fmt"
	"time"

	"github.com/elonfeng/bullhorn/pkg/extract"
	"github.com/elonfeng/bullhorn/pkg/forum"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store is the persistence interface between the collect and export
// phases. Listing methods return rows in insertion order, which for
// topics is page order then intra-page order, and for contributions is
// extraction order.
type Store interface {
	ReplaceTopics(ctx context.Context, topics []forum.Topic) error
	ListTopics(ctx context.Context) ([]forum.Topic, error)
	CountTopics(ctx context.Context) (int, error)

	ReplaceContributions(ctx context.Context, topicID int, records []extract.Record) error
	ListContributions(ctx context.Context) ([]extract.Record, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceTopics swaps in a fresh topic snapshot. A collect run replaces
// the previous listing wholesale so seq reflects the new page order.
func (s *SQLiteStore) ReplaceTopics(ctx context.Context, topics []forum.Topic) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace topics: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM topics"); err != nil {
		return fmt.Errorf("clear topics: %w", err)
	}

	now := time.Now().UTC()
	for _, t := range topics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO topics (id, title, views, like_count, collected_at)
			VALUES (?, ?, ?, ?, ?)
		`, t.ID, t.Title, t.Views, t.LikeCount, now)
		if err != nil {
			return fmt.Errorf("insert topic %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListTopics(ctx context.Context) ([]forum.Topic, error) {
	var topics []forum.Topic
	err := s.db.SelectContext(ctx, &topics,
		"SELECT id, title, views, like_count FROM topics ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (s *SQLiteStore) CountTopics(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM topics"); err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	return count, nil
}

// ReplaceContributions swaps in the records extracted from one topic.
func (s *SQLiteStore) ReplaceContributions(ctx context.Context, topicID int, records []extract.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace contributions: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM contributions WHERE topic_id = ?", topicID); err != nil {
		return fmt.Errorf("clear contributions %d: %w", topicID, err)
	}

	now := time.Now().UTC()
	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO contributions (topic_id, user, matrix_link, collected_at)
			VALUES (?, ?, ?, ?)
		`, r.TopicID, r.User, r.MatrixLink, now)
		if err != nil {
			return fmt.Errorf("insert contribution for topic %d: %w", topicID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListContributions(ctx context.Context) ([]extract.Record, error) {
	var records []extract.Record
	err := s.db.SelectContext(ctx, &records,
		"SELECT topic_id, user, matrix_link FROM contributions ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	return records, nil
}
