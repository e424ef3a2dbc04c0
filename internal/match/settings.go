package match

import (
	"fmt"

	"github.com/ejdedart/dartscore/internal/darts"
)

// StartOrder picks who throws first in the opening leg.
type StartOrder string

const (
	StartFirst StartOrder = "first" // the first listed player
	StartCoin  StartOrder = "coin"  // uniformly random
)

// LegStarter picks who throws first in every following leg.
type LegStarter string

const (
	// NextAlternate rotates the start to the next player in seat order.
	NextAlternate LegStarter = "alternate"
	// NextWinner lets the winner of the previous leg start.
	NextWinner LegStarter = "winner"
	// NextFixed keeps the opening starter for every leg.
	NextFixed LegStarter = "fixed"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
	MaxDarts   = 3
)

// Settings configure a match. They do not change once play starts.
type Settings struct {
	StartScore     int           `json:"startScore"`
	InRule         InRule        `json:"inRule"`
	OutRule        darts.OutRule `json:"outRule"`
	BestOfLegs     int           `json:"bestOfLegs"`
	BestOfSets     int           `json:"bestOfSets"`
	StartOrder     StartOrder    `json:"startOrder"`
	NextLegStarter LegStarter    `json:"nextLegStarter"`
}

// DefaultSettings is a single set of best-of-three legs of 501, double out.
func DefaultSettings() Settings {
	return Settings{
		StartScore:     501,
		InRule:         StraightIn,
		OutRule:        darts.DoubleOut,
		BestOfLegs:     3,
		BestOfSets:     1,
		StartOrder:     StartFirst,
		NextLegStarter: NextAlternate,
	}
}

// WithDefaults fills every zero field from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.StartScore == 0 {
		s.StartScore = def.StartScore
	}
	if s.InRule == "" {
		s.InRule = def.InRule
	}
	if s.OutRule == "" {
		s.OutRule = def.OutRule
	}
	if s.BestOfLegs == 0 {
		s.BestOfLegs = def.BestOfLegs
	}
	if s.BestOfSets == 0 {
		s.BestOfSets = def.BestOfSets
	}
	if s.StartOrder == "" {
		s.StartOrder = def.StartOrder
	}
	if s.NextLegStarter == "" {
		s.NextLegStarter = def.NextLegStarter
	}
	return s
}

func (s Settings) Validate() error {
	switch {
	case s.StartScore < 2:
		return fmt.Errorf("%w: start score %d", ErrInvalidSettings, s.StartScore)
	case !s.InRule.Valid():
		return fmt.Errorf("%w: in rule %q", ErrInvalidSettings, s.InRule)
	case !s.OutRule.Valid():
		return fmt.Errorf("%w: out rule %q", ErrInvalidSettings, s.OutRule)
	case s.BestOfLegs < 1:
		return fmt.Errorf("%w: best of %d legs", ErrInvalidSettings, s.BestOfLegs)
	case s.BestOfSets < 1:
		return fmt.Errorf("%w: best of %d sets", ErrInvalidSettings, s.BestOfSets)
	}
	switch s.StartOrder {
	case StartFirst, StartCoin:
	default:
		return fmt.Errorf("%w: start order %q", ErrInvalidSettings, s.StartOrder)
	}
	switch s.NextLegStarter {
	case NextAlternate, NextWinner, NextFixed:
	default:
		return fmt.Errorf("%w: next leg starter %q", ErrInvalidSettings, s.NextLegStarter)
	}
	return nil
}

// Rules returns the in and out rules for Evaluate.
func (s Settings) Rules() Rules {
	return Rules{In: s.InRule, Out: s.OutRule}
}

// LegsToWinSet is the number of legs that takes a set: ceil(BestOfLegs/2).
func (s Settings) LegsToWinSet() int { return (s.BestOfLegs + 1) / 2 }

// SetsToWinMatch is the number of sets that takes the match: ceil(BestOfSets/2).
func (s Settings) SetsToWinMatch() int { return (s.BestOfSets + 1) / 2 }
