package darts

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRule = errors.New("unknown rule")

// OutRule decides which darts may finish a leg.
type OutRule string

const (
	// StraightOut lets any scoring dart finish.
	StraightOut OutRule = "straight"
	// DoubleOut requires a double or the inner bull.
	DoubleOut OutRule = "double"
	// MasterOut accepts a double, a triple or the inner bull.
	MasterOut OutRule = "master"
)

// ParseOutRule accepts the rule name case-insensitively. An empty string
// selects DoubleOut.
func ParseOutRule(s string) (OutRule, error) {
	switch r := OutRule(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return DoubleOut, nil
	case StraightOut, DoubleOut, MasterOut:
		return r, nil
	}
	return "", fmt.Errorf("%w: out rule %q", ErrUnknownRule, s)
}

func (r OutRule) Valid() bool {
	return r == StraightOut || r == DoubleOut || r == MasterOut
}

// Finishes reports whether d is a legal last dart under r.
func (r OutRule) Finishes(d Dart) bool {
	if d.Kind == Miss {
		return false
	}
	switch r {
	case StraightOut:
		return true
	case MasterOut:
		return d.IsDouble() || d.Kind == Triple
	default:
		return d.IsDouble()
	}
}

// LeavesDeadScore reports whether a remaining score of 1 can never be
// finished under r. Only a single 1 takes exactly one point.
func (r OutRule) LeavesDeadScore(remaining int) bool {
	return remaining == 1 && r != StraightOut
}

// MaxCheckout is the highest score that can be finished in one visit.
func (r OutRule) MaxCheckout() int {
	if r == StraightOut || r == MasterOut {
		return 180
	}
	return 170
}
