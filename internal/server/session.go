package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ejdedart/dartscore/internal/checkout"
	"github.com/ejdedart/dartscore/internal/darts"
	"github.com/ejdedart/dartscore/internal/match"
)

var ErrDartsPending = errors.New("darts pending in the current visit")

// Session is one live match with its unfinished visit. All access goes
// through the session lock, and every change is saved before the lock is
// released.
type Session struct {
	ID        string
	CreatedAt time.Time

	saves  SaveStore
	logger *slog.Logger

	mu         sync.Mutex
	match      *match.Match
	pending    []darts.Dart
	scorerHash []byte
	archived   bool
	// closed is set once the match is deleted. A closed session rejects
	// changes and is never saved again.
	closed bool
}

func newSession(m *match.Match, scorerHash []byte, saves SaveStore, logger *slog.Logger) *Session {
	return &Session{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		saves:      saves,
		logger:     logger,
		match:      m,
		scorerHash: scorerHash,
	}
}

func sessionFromSave(g SavedGame, saves SaveStore, logger *slog.Logger) (*Session, error) {
	m, err := match.Restore(g.Match)
	if err != nil {
		return nil, fmt.Errorf("restoring match %s: %w", g.ID, err)
	}
	if len(g.Pending) >= match.MaxDarts || (m.Finished() && len(g.Pending) > 0) {
		return nil, fmt.Errorf("restoring match %s: %w: %d pending darts", g.ID, match.ErrInvalidState, len(g.Pending))
	}
	return &Session{
		ID:         g.ID,
		CreatedAt:  g.CreatedAt,
		saves:      saves,
		logger:     logger,
		match:      m,
		pending:    slices.Clone(g.Pending),
		scorerHash: g.ScorerHash,
		archived:   g.Archived,
	}, nil
}

// snapshot must be called with s.mu held.
func (s *Session) snapshot() SavedGame {
	return SavedGame{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Match:      s.match.State(),
		Pending:    slices.Clone(s.pending),
		ScorerHash: s.scorerHash,
		Archived:   s.archived,
	}
}

// persist must be called with s.mu held. A failed save is logged; the
// in-memory match stays authoritative and the next change saves again.
func (s *Session) persist(ctx context.Context) {
	if s.closed {
		return
	}
	if err := s.saves.Save(ctx, s.snapshot()); err != nil {
		s.logger.Error("saving match", "match_id", s.ID, "error", err)
	}
}

// Authorize checks the request's bearer token against the scorer token
// issued when the match was created.
func (s *Session) Authorize(r *http.Request) error {
	return checkBearer(r, s.scorerHash)
}

// AddDart adds one dart to the current visit. The visit is committed once it
// holds three darts or is already decided by a bust or a checkout; the result
// is nil while it is still open.
func (s *Session) AddDart(ctx context.Context, d darts.Dart) (*match.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrNotFound
	}
	if s.match.Finished() {
		return nil, match.ErrMatchFinished
	}

	visit := append(slices.Clone(s.pending), d)
	o, err := s.match.Preview(visit)
	if err != nil {
		return nil, err
	}
	if len(visit) < match.MaxDarts && !o.Bust && !o.Checkout {
		s.pending = visit
		s.persist(ctx)
		return nil, nil
	}

	res, err := s.match.ApplyDarts(visit)
	if err != nil {
		return nil, err
	}
	s.pending = nil
	s.persist(ctx)
	return &res, nil
}

// EndTurn commits the current visit with fewer than three darts.
func (s *Session) EndTurn(ctx context.Context) (match.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return match.TurnResult{}, ErrNotFound
	}
	if s.match.Finished() {
		return match.TurnResult{}, match.ErrMatchFinished
	}
	if len(s.pending) == 0 {
		return match.TurnResult{}, match.ErrEmptyTurn
	}

	res, err := s.match.ApplyDarts(s.pending)
	if err != nil {
		return match.TurnResult{}, err
	}
	s.pending = nil
	s.persist(ctx)
	return res, nil
}

// SubmitTurn commits a whole visit at once. It is refused while single
// darts are pending.
func (s *Session) SubmitTurn(ctx context.Context, tokens []string) (match.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return match.TurnResult{}, ErrNotFound
	}
	if len(s.pending) > 0 {
		return match.TurnResult{}, ErrDartsPending
	}

	res, err := s.match.ApplyTurn(tokens)
	if err != nil {
		return match.TurnResult{}, err
	}
	s.persist(ctx)
	return res, nil
}

// Undo kind reported by UndoDart.
const (
	UndoneDart = "dart"
	UndoneTurn = "turn"
)

// UndoDart takes back the last pending dart or, with none pending, the last
// committed visit. It reports "" when there is nothing to undo, and
// unarchived when the undo reopened a match already recorded in history.
func (s *Session) UndoDart(ctx context.Context) (undone string, unarchived bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", false, ErrNotFound
	}

	switch {
	case len(s.pending) > 0:
		s.pending = s.pending[:len(s.pending)-1]
		undone = UndoneDart
	case s.match.UndoLastTurn():
		undone = UndoneTurn
		// A reopened match is recorded again when it finishes.
		unarchived = s.archived && !s.match.Finished()
		s.archived = s.archived && s.match.Finished()
	default:
		return "", false, nil
	}
	s.persist(ctx)
	return undone, unarchived, nil
}

// close marks the session deleted. Changes already in flight on other
// requests fail with ErrNotFound instead of saving the match again.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Archive marks a finished match as recorded in history. It reports
// whether the caller should record it, which is true once per finish.
func (s *Session) Archive(ctx context.Context) (match.Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.match.Finished() || s.archived {
		return match.Summary{}, false
	}
	s.archived = true
	s.persist(ctx)
	return s.match.Summary(), true
}

func (s *Session) Summary() match.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Summary()
}

// PlayerView is one player's line on the scoreboard.
type PlayerView struct {
	Name         string      `json:"name"`
	Score        int         `json:"score"`
	IsIn         bool        `json:"isIn"`
	LegsWonInSet int         `json:"legsWonInSet"`
	SetsWon      int         `json:"setsWon"`
	Turns        int         `json:"turns"`
	LastTurn     *match.Turn `json:"lastTurn"`
	// CanFinish is set when the score can be checked out in one visit.
	CanFinish bool `json:"canFinish"`
}

// MatchView is everything a scoreboard renders for a match.
type MatchView struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	Settings     match.Settings  `json:"settings"`
	Scoreline    match.Scoreline `json:"scoreline"`
	Players      []PlayerView    `json:"players"`
	Pending      []darts.Dart    `json:"pending"`
	Remaining    int             `json:"remaining"`
	Checkout     []darts.Dart    `json:"checkout"`
	Alternatives [][]darts.Dart  `json:"alternatives"`
	CanUndo      bool            `json:"canUndo"`
}

func (s *Session) View() MatchView {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.match.Settings()
	v := MatchView{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Settings:  settings,
		Scoreline: s.match.Scoreline(),
		Pending:   slices.Clone(s.pending),
		CanUndo:   len(s.pending) > 0 || s.match.CanUndo(),
	}
	if v.Pending == nil {
		v.Pending = []darts.Dart{}
	}

	for _, p := range s.match.Players() {
		pv := PlayerView{
			Name:         p.Name,
			Score:        p.Score,
			IsIn:         p.IsIn,
			LegsWonInSet: p.LegsWonInSet,
			SetsWon:      p.SetsWon,
			Turns:        len(p.Turns),
			CanFinish:    p.IsIn && canFinish(p.Score, settings.OutRule),
		}
		if len(p.Turns) > 0 {
			last := p.Turns[len(p.Turns)-1]
			pv.LastTurn = &last
		}
		v.Players = append(v.Players, pv)
	}

	if s.match.Finished() {
		return v
	}
	o, err := s.match.Preview(s.pending)
	if err != nil {
		return v
	}
	v.Remaining = o.ScoreAfter
	if !o.IsIn || o.Bust {
		return v
	}
	left := match.MaxDarts - len(s.pending)
	for _, line := range checkout.Alternatives(o.ScoreAfter, settings.OutRule, checkout.DefaultAlternatives) {
		if len(line) <= left {
			v.Alternatives = append(v.Alternatives, line)
		}
	}
	if len(v.Alternatives) > 0 {
		v.Checkout = v.Alternatives[0]
	}
	return v
}

// canFinish reports whether score can be checked out in one visit. Under
// straight out that includes 1, which the solver never suggests.
func canFinish(score int, out darts.OutRule) bool {
	return (score == 1 && out == darts.StraightOut) || checkout.Finishable(score, out)
}
