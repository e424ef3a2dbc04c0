package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ejdedart/dartscore/internal/match"
)

// DefaultHistoryLimit is how many finished matches are kept.
const DefaultHistoryLimit = 50

type SQLiteHistoryStore struct {
	db    *sql.DB
	limit int
	now   func() time.Time
}

func NewSQLiteHistoryStore(db *sql.DB, limit int) *SQLiteHistoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &SQLiteHistoryStore{db: db, limit: limit, now: time.Now}
}

// Append records a finished match and drops everything beyond the newest
// limit entries. A match that is appended again replaces its old entry.
func (s *SQLiteHistoryStore) Append(ctx context.Context, matchID string, sum match.Summary) error {
	data, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO match_history (match_id, finished_at, winner, summary)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (match_id) DO UPDATE SET
			finished_at = excluded.finished_at,
			winner = excluded.winner,
			summary = excluded.summary
	`, matchID, s.now().UTC().Format(time.RFC3339Nano), sum.Winner, string(data))
	if err != nil {
		return fmt.Errorf("inserting history: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM match_history
		WHERE id NOT IN (SELECT id FROM match_history ORDER BY id DESC LIMIT ?)
	`, s.limit)
	if err != nil {
		return fmt.Errorf("trimming history: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteHistoryStore) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_id, finished_at, summary
		FROM match_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var (
			e          HistoryEntry
			finishedAt string
			summary    string
		)
		if err := rows.Scan(&e.ID, &e.MatchID, &finishedAt, &summary); err != nil {
			return nil, err
		}
		if e.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("history %d: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(summary), &e.Summary); err != nil {
			return nil, fmt.Errorf("history %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteHistoryStore) Remove(ctx context.Context, matchID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM match_history WHERE match_id = ?`, matchID)
	return err
}

func (s *SQLiteHistoryStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM match_history`)
	return err
}
