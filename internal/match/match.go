// Package match runs an x01 darts match: it applies each visit to the
// thrower's score, awards legs and sets, passes the throw and keeps an undo
// log. A Match is not safe for concurrent use; callers serialize access.
package match

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/ejdedart/dartscore/internal/darts"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidPlayers  = errors.New("invalid players")
	ErrEmptyTurn       = errors.New("empty turn")
	ErrTooManyDarts    = errors.New("too many darts")
	ErrMatchFinished   = errors.New("match already finished")
	ErrInvalidState    = errors.New("invalid match state")
)

// Turn is one committed visit. Turns are never modified after they are
// appended to a player.
type Turn struct {
	Darts         []darts.Dart `json:"darts"`
	SetNo         int          `json:"setNo"`
	LegNo         int          `json:"legNo"`
	PointsRaw     int          `json:"pointsRaw"`
	PointsCounted int          `json:"pointsCounted"`
	ScoreBefore   int          `json:"scoreBefore"`
	ScoreAfter    int          `json:"scoreAfter"`
	Bust          bool         `json:"bust"`
	Checkout      bool         `json:"checkout"`
	BecameIn      bool         `json:"becameIn"`
}

// Player is one player's standing in the match.
type Player struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	IsIn         bool   `json:"isIn"`
	LegsWonInSet int    `json:"legsWonInSet"`
	SetsWon      int    `json:"setsWon"`
	Turns        []Turn `json:"turns"`
}

// TurnResult reports what a committed visit did.
type TurnResult struct {
	Player        int  `json:"player"`
	Bust          bool `json:"bust"`
	Checkout      bool `json:"checkout"`
	BecameIn      bool `json:"becameIn"`
	PointsRaw     int  `json:"pointsRaw"`
	PointsCounted int  `json:"pointsCounted"`
	ScoreBefore   int  `json:"scoreBefore"`
	ScoreAfter    int  `json:"scoreAfter"`
	LegWon        bool `json:"legWon"`
	SetWon        bool `json:"setWon"`
	MatchWon      bool `json:"matchWon"`
}

type Match struct {
	settings   Settings
	players    []Player
	setNo      int
	legNo      int
	current    int
	legStarter int
	finished   bool
	winner     int
	history    []Checkpoint
}

type options struct {
	rng *rand.Rand
}

type Option func(*options)

// WithRand sets the source used for a coin-toss start.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// New starts a match between the named players, in seat order.
func New(settings Settings, names []string, opts ...Option) (*Match, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return nil, fmt.Errorf("%w: need %d to %d players, got %d", ErrInvalidPlayers, MinPlayers, MaxPlayers, len(names))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := &Match{
		settings: settings,
		players:  make([]Player, len(names)),
		setNo:    1,
		legNo:    1,
		winner:   -1,
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalidPlayers, i+1)
		}
		m.players[i] = Player{Name: name}
	}
	m.resetLeg()

	if settings.StartOrder == StartCoin {
		if o.rng != nil {
			m.legStarter = o.rng.IntN(len(names))
		} else {
			m.legStarter = rand.IntN(len(names))
		}
	}
	m.current = m.legStarter
	return m, nil
}

// ApplyTurn parses and commits one visit for the player whose turn it is.
func (m *Match) ApplyTurn(tokens []string) (TurnResult, error) {
	ds, err := darts.ParseAll(tokens)
	if err != nil {
		return TurnResult{}, err
	}
	return m.ApplyDarts(ds)
}

// ApplyDarts commits one visit of one to three darts for the current
// player. Nothing changes when an error is returned.
func (m *Match) ApplyDarts(ds []darts.Dart) (TurnResult, error) {
	if err := m.checkVisit(ds); err != nil {
		return TurnResult{}, err
	}
	if len(ds) == 0 {
		return TurnResult{}, ErrEmptyTurn
	}

	m.history = append(m.history, m.checkpoint())

	idx := m.current
	p := &m.players[idx]
	o := Evaluate(p.Score, ds, m.settings.Rules(), p.IsIn)

	p.Turns = append(p.Turns, Turn{
		Darts:         slices.Clone(ds),
		SetNo:         m.setNo,
		LegNo:         m.legNo,
		PointsRaw:     o.PointsRaw,
		PointsCounted: o.PointsCounted,
		ScoreBefore:   p.Score,
		ScoreAfter:    o.ScoreAfter,
		Bust:          o.Bust,
		Checkout:      o.Checkout,
		BecameIn:      o.BecameIn,
	})

	res := TurnResult{
		Player:        idx,
		Bust:          o.Bust,
		Checkout:      o.Checkout,
		BecameIn:      o.BecameIn,
		PointsRaw:     o.PointsRaw,
		PointsCounted: o.PointsCounted,
		ScoreBefore:   p.Score,
		ScoreAfter:    o.ScoreAfter,
	}

	p.Score = o.ScoreAfter
	p.IsIn = o.IsIn

	if o.Checkout {
		res.LegWon = true
		res.SetWon, res.MatchWon = m.awardLeg(idx)
	} else {
		m.current = (m.current + 1) % len(m.players)
	}
	return res, nil
}

// Preview evaluates an unfinished visit for the current player without
// committing it.
func (m *Match) Preview(ds []darts.Dart) (Outcome, error) {
	if err := m.checkVisit(ds); err != nil {
		return Outcome{}, err
	}
	p := m.players[m.current]
	return Evaluate(p.Score, ds, m.settings.Rules(), p.IsIn), nil
}

func (m *Match) checkVisit(ds []darts.Dart) error {
	if m.finished {
		return ErrMatchFinished
	}
	if len(ds) > MaxDarts {
		return fmt.Errorf("%w: %d", ErrTooManyDarts, len(ds))
	}
	return nil
}

// awardLeg credits the leg to player w and either starts the next leg or
// ends the match.
func (m *Match) awardLeg(w int) (setWon, matchWon bool) {
	p := &m.players[w]
	p.LegsWonInSet++

	if p.LegsWonInSet >= m.settings.LegsToWinSet() {
		setWon = true
		p.SetsWon++
		for i := range m.players {
			m.players[i].LegsWonInSet = 0
		}
		m.setNo++
		m.legNo = 1

		if p.SetsWon >= m.settings.SetsToWinMatch() {
			m.finished = true
			m.winner = w
			return true, true
		}
	} else {
		m.legNo++
	}

	m.resetLeg()
	switch m.settings.NextLegStarter {
	case NextAlternate:
		m.legStarter = (m.legStarter + 1) % len(m.players)
	case NextWinner:
		m.legStarter = w
	}
	m.current = m.legStarter
	return setWon, false
}

func (m *Match) resetLeg() {
	for i := range m.players {
		m.players[i].Score = m.settings.StartScore
		m.players[i].IsIn = m.settings.InRule != DoubleIn
	}
}

// UndoLastTurn restores the match to just before the most recent visit.
// It reports false when there is nothing to undo.
func (m *Match) UndoLastTurn() bool {
	if len(m.history) == 0 {
		return false
	}
	cp := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.restore(cp)
	return true
}

func (m *Match) CanUndo() bool { return len(m.history) > 0 }

func (m *Match) Settings() Settings { return m.settings }
func (m *Match) Finished() bool     { return m.finished }
func (m *Match) Current() int       { return m.current }
func (m *Match) LegStarter() int    { return m.legStarter }

// Winner returns the winning player index once the match is finished.
func (m *Match) Winner() (int, bool) {
	if !m.finished {
		return -1, false
	}
	return m.winner, true
}

// Players returns a copy of every player's standing.
func (m *Match) Players() []Player {
	out := make([]Player, len(m.players))
	for i, p := range m.players {
		p.Turns = cloneTurns(p.Turns)
		out[i] = p
	}
	return out
}

// Scoreline is the read-only snapshot a scoreboard renders.
type Scoreline struct {
	SetNo         int   `json:"setNo"`
	LegNoInSet    int   `json:"legNoInSet"`
	LegsInSet     []int `json:"legsInSet"`
	Sets          []int `json:"sets"`
	Scores        []int `json:"scores"`
	CurrentPlayer int   `json:"currentPlayer"`
	LegStarter    int   `json:"legStarter"`
	Winner        *int  `json:"winner"`
	Finished      bool  `json:"finished"`
}

func (m *Match) Scoreline() Scoreline {
	s := Scoreline{
		SetNo:         m.setNo,
		LegNoInSet:    m.legNo,
		LegsInSet:     make([]int, len(m.players)),
		Sets:          make([]int, len(m.players)),
		Scores:        make([]int, len(m.players)),
		CurrentPlayer: m.current,
		LegStarter:    m.legStarter,
		Finished:      m.finished,
	}
	for i, p := range m.players {
		s.LegsInSet[i] = p.LegsWonInSet
		s.Sets[i] = p.SetsWon
		s.Scores[i] = p.Score
	}
	if w, ok := m.Winner(); ok {
		s.Winner = &w
	}
	return s
}

// Summary is the flattened record kept in match history.
type Summary struct {
	Players        []string      `json:"players"`
	StartScore     int           `json:"startScore"`
	InRule         InRule        `json:"inRule"`
	OutRule        darts.OutRule `json:"outRule"`
	BestOfLegs     int           `json:"bestOfLegs"`
	BestOfSets     int           `json:"bestOfSets"`
	NextLegStarter LegStarter    `json:"nextLegStarter"`
	Sets           []int         `json:"sets"`
	Scores         []int         `json:"scores"`
	Finished       bool          `json:"finished"`
	Winner         string        `json:"winner"`
}

func (m *Match) Summary() Summary {
	s := Summary{
		Players:        make([]string, len(m.players)),
		StartScore:     m.settings.StartScore,
		InRule:         m.settings.InRule,
		OutRule:        m.settings.OutRule,
		BestOfLegs:     m.settings.BestOfLegs,
		BestOfSets:     m.settings.BestOfSets,
		NextLegStarter: m.settings.NextLegStarter,
		Sets:           make([]int, len(m.players)),
		Scores:         make([]int, len(m.players)),
		Finished:       m.finished,
	}
	for i, p := range m.players {
		s.Players[i] = p.Name
		s.Sets[i] = p.SetsWon
		s.Scores[i] = p.Score
	}
	if w, ok := m.Winner(); ok {
		s.Winner = m.players[w].Name
	}
	return s
}

func cloneTurns(ts []Turn) []Turn {
	if len(ts) == 0 {
		return nil
	}
	return slices.Clone(ts)
}
