package server

import (
	"context"
	"errors"
	"time"

	"github.com/ejdedart/dartscore/internal/darts"
	"github.com/ejdedart/dartscore/internal/match"
)

var ErrNotFound = errors.New("not found")

// SavedGame is a session as it is kept between requests and restarts.
type SavedGame struct {
	ID         string       `json:"id"`
	CreatedAt  time.Time    `json:"createdAt"`
	Match      match.State  `json:"match"`
	Pending    []darts.Dart `json:"pending"`
	ScorerHash []byte       `json:"scorerHash"`
	Archived   bool         `json:"archived"`
}

// SaveStore holds one saved game per match ID.
type SaveStore interface {
	Save(ctx context.Context, g SavedGame) error
	// Load returns ErrNotFound when nothing is saved under id.
	Load(ctx context.Context, id string) (SavedGame, error)
	Clear(ctx context.Context, id string) error
}

// HistoryEntry is one finished match.
type HistoryEntry struct {
	ID         int64         `json:"id"`
	MatchID    string        `json:"matchId"`
	FinishedAt time.Time     `json:"finishedAt"`
	Summary    match.Summary `json:"summary"`
}

// HistoryStore keeps the most recent finished matches, newest first.
type HistoryStore interface {
	Append(ctx context.Context, matchID string, s match.Summary) error
	List(ctx context.Context, limit int) ([]HistoryEntry, error)
	// Remove drops the entry of a match that is no longer finished.
	Remove(ctx context.Context, matchID string) error
	Clear(ctx context.Context) error
}
