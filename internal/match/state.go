package match

import (
	"fmt"
	"slices"
)

// Mark is one player's scalars at a checkpoint.
type Mark struct {
	Score        int  `json:"score"`
	IsIn         bool `json:"isIn"`
	LegsWonInSet int  `json:"legsWonInSet"`
	SetsWon      int  `json:"setsWon"`
	Turns        int  `json:"turns"`
}

// Checkpoint is the match as it stood before one visit.
type Checkpoint struct {
	Players    []Mark `json:"players"`
	SetNo      int    `json:"setNo"`
	LegNo      int    `json:"legNo"`
	Current    int    `json:"current"`
	LegStarter int    `json:"legStarter"`
	Finished   bool   `json:"finished"`
	Winner     int    `json:"winner"`
}

func (m *Match) checkpoint() Checkpoint {
	cp := Checkpoint{
		Players:    make([]Mark, len(m.players)),
		SetNo:      m.setNo,
		LegNo:      m.legNo,
		Current:    m.current,
		LegStarter: m.legStarter,
		Finished:   m.finished,
		Winner:     m.winner,
	}
	for i, p := range m.players {
		cp.Players[i] = Mark{
			Score:        p.Score,
			IsIn:         p.IsIn,
			LegsWonInSet: p.LegsWonInSet,
			SetsWon:      p.SetsWon,
			Turns:        len(p.Turns),
		}
	}
	return cp
}

func (m *Match) restore(cp Checkpoint) {
	for i, mk := range cp.Players {
		p := &m.players[i]
		p.Score = mk.Score
		p.IsIn = mk.IsIn
		p.LegsWonInSet = mk.LegsWonInSet
		p.SetsWon = mk.SetsWon
		if mk.Turns == 0 {
			p.Turns = nil
		} else {
			p.Turns = p.Turns[:mk.Turns]
		}
	}
	m.setNo = cp.SetNo
	m.legNo = cp.LegNo
	m.current = cp.Current
	m.legStarter = cp.LegStarter
	m.finished = cp.Finished
	m.winner = cp.Winner
}

// State is the full serializable form of a match, undo log included.
type State struct {
	Settings   Settings     `json:"settings"`
	Players    []Player     `json:"players"`
	SetNo      int          `json:"setNo"`
	LegNo      int          `json:"legNo"`
	Current    int          `json:"current"`
	LegStarter int          `json:"legStarter"`
	Finished   bool         `json:"finished"`
	Winner     *int         `json:"winner"`
	History    []Checkpoint `json:"history"`
}

// State snapshots the match. The result shares nothing mutable with m.
func (m *Match) State() State {
	s := State{
		Settings:   m.settings,
		Players:    m.Players(),
		SetNo:      m.setNo,
		LegNo:      m.legNo,
		Current:    m.current,
		LegStarter: m.legStarter,
		Finished:   m.finished,
	}
	if w, ok := m.Winner(); ok {
		s.Winner = &w
	}
	if len(m.history) > 0 {
		s.History = make([]Checkpoint, len(m.history))
		for i, cp := range m.history {
			cp.Players = slices.Clone(cp.Players)
			s.History[i] = cp
		}
	}
	return s
}

// Restore rebuilds a match from a State, rejecting anything a match could
// not have reached by play.
func Restore(s State) (*Match, error) {
	if err := s.Settings.Validate(); err != nil {
		return nil, err
	}
	n := len(s.Players)
	if n < MinPlayers || n > MaxPlayers {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidState, n)
	}
	inRange := func(i int) bool { return i >= 0 && i < n }

	switch {
	case s.SetNo < 1 || s.LegNo < 1:
		return nil, fmt.Errorf("%w: set %d leg %d", ErrInvalidState, s.SetNo, s.LegNo)
	case !inRange(s.Current) || !inRange(s.LegStarter):
		return nil, fmt.Errorf("%w: player index out of range", ErrInvalidState)
	case s.Finished != (s.Winner != nil):
		return nil, fmt.Errorf("%w: finished without a winner", ErrInvalidState)
	case s.Winner != nil && !inRange(*s.Winner):
		return nil, fmt.Errorf("%w: winner %d", ErrInvalidState, *s.Winner)
	}

	m := &Match{
		settings:   s.Settings,
		players:    make([]Player, n),
		setNo:      s.SetNo,
		legNo:      s.LegNo,
		current:    s.Current,
		legStarter: s.LegStarter,
		finished:   s.Finished,
		winner:     -1,
	}
	if s.Winner != nil {
		m.winner = *s.Winner
	}
	for i, p := range s.Players {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalidState, i+1)
		}
		if p.Score < 0 || p.Score > s.Settings.StartScore {
			return nil, fmt.Errorf("%w: player %d score %d", ErrInvalidState, i+1, p.Score)
		}
		p.Turns = cloneTurns(p.Turns)
		m.players[i] = p
	}

	for i, cp := range s.History {
		if len(cp.Players) != n {
			return nil, fmt.Errorf("%w: checkpoint %d has %d players", ErrInvalidState, i, len(cp.Players))
		}
		switch {
		case !inRange(cp.Current) || !inRange(cp.LegStarter):
			return nil, fmt.Errorf("%w: checkpoint %d player index out of range", ErrInvalidState, i)
		case cp.SetNo < 1 || cp.LegNo < 1:
			return nil, fmt.Errorf("%w: checkpoint %d set %d leg %d", ErrInvalidState, i, cp.SetNo, cp.LegNo)
		// A checkpoint is taken before a visit, so the match was still open.
		case cp.Finished || cp.Winner != -1:
			return nil, fmt.Errorf("%w: checkpoint %d taken after the match ended", ErrInvalidState, i)
		}
		for j, mk := range cp.Players {
			if mk.Turns < 0 || mk.Turns > len(m.players[j].Turns) {
				return nil, fmt.Errorf("%w: checkpoint %d turn count %d", ErrInvalidState, i, mk.Turns)
			}
			if mk.Score < 0 || mk.Score > s.Settings.StartScore {
				return nil, fmt.Errorf("%w: checkpoint %d player %d score %d", ErrInvalidState, i, j+1, mk.Score)
			}
		}
		cp.Players = slices.Clone(cp.Players)
		m.history = append(m.history, cp)
	}
	return m, nil
}
