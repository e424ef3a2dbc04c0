package match

import (
	"fmt"
	"strings"

	"github.com/ejdedart/dartscore/internal/darts"
)

// InRule decides when a player's darts start counting in a leg.
type InRule string

const (
	StraightIn InRule = "straight"
	DoubleIn   InRule = "double"
)

// ParseInRule accepts the rule name case-insensitively. An empty string
// selects StraightIn.
func ParseInRule(s string) (InRule, error) {
	switch r := InRule(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return StraightIn, nil
	case StraightIn, DoubleIn:
		return r, nil
	}
	return "", fmt.Errorf("%w: in rule %q", darts.ErrUnknownRule, s)
}

func (r InRule) Valid() bool { return r == StraightIn || r == DoubleIn }

// Rules is the part of Settings the turn evaluator needs.
type Rules struct {
	In  InRule
	Out darts.OutRule
}

// Outcome is the verdict on one visit.
type Outcome struct {
	PointsRaw     int
	PointsCounted int
	ScoreAfter    int
	Bust          bool
	Checkout      bool
	BecameIn      bool
	// IsIn is the player's in-status after the visit.
	IsIn bool
}

// Evaluate judges a visit of darts thrown from scoreBefore. It never
// mutates anything; the caller applies the outcome.
//
// Under double in, darts before the first double do not count and a visit
// without a double leaves the player out with the score unchanged. A bust
// (below zero, a dead 1, or reaching zero on a dart the out rule rejects)
// leaves ScoreAfter equal to scoreBefore. A player who doubles in and then
// busts in the same visit stays in.
func Evaluate(scoreBefore int, turn []darts.Dart, rules Rules, isIn bool) Outcome {
	gated := rules.In == DoubleIn && !isIn
	o := Outcome{ScoreAfter: scoreBefore, IsIn: !gated}

	for _, d := range turn {
		o.PointsRaw += d.Points
		if gated && !o.IsIn && d.IsDouble() {
			o.IsIn = true
			o.BecameIn = true
		}
		if o.IsIn {
			o.PointsCounted += d.Points
		}
	}
	if !o.IsIn || len(turn) == 0 {
		return o
	}

	after := scoreBefore - o.PointsCounted
	switch {
	case after < 0, rules.Out.LeavesDeadScore(after):
		o.Bust = true
	case after == 0 && !rules.Out.Finishes(turn[len(turn)-1]):
		o.Bust = true
	case after == 0:
		o.Checkout = true
		o.ScoreAfter = 0
	default:
		o.ScoreAfter = after
	}
	return o
}
