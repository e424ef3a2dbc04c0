// Package checkout finds the dart combinations that finish a leg from a
// given remaining score in at most three darts.
//
// The search is exhaustive over the board: one dart first, then two, then
// three. Only lines of the shortest possible length are ever returned.
// Within that length lines are ranked by how comfortable they are to throw;
// the ranking is a preference and never affects validity.
package checkout

import (
	"cmp"
	"slices"

	"github.com/ejdedart/dartscore/internal/darts"
)

// DefaultAlternatives is how many lines a scoreboard shows.
const DefaultAlternatives = 3

// popular finishing doubles, most preferred first.
var popular = []darts.Dart{
	darts.D(20), darts.D(16), darts.D(10), darts.D(12),
	darts.D(8), darts.D(6), darts.D(4), darts.D(2), darts.Bull,
}

type solver struct {
	setup     []darts.Dart
	finishers map[int][]darts.Dart
}

var solvers = map[darts.OutRule]*solver{
	darts.StraightOut: newSolver(darts.StraightOut),
	darts.DoubleOut:   newSolver(darts.DoubleOut),
	darts.MasterOut:   newSolver(darts.MasterOut),
}

func newSolver(out darts.OutRule) *solver {
	board := darts.Board()

	// A miss never shortens a line, so it is left out of the setup darts.
	setup := slices.DeleteFunc(slices.Clone(board), func(d darts.Dart) bool {
		return d.Kind == darts.Miss
	})
	slices.SortStableFunc(setup, func(a, b darts.Dart) int {
		return cmp.Compare(b.Points, a.Points)
	})

	var last []darts.Dart
	last = append(last, popular...)
	for _, d := range setup {
		if out.Finishes(d) && !slices.Contains(popular, d) {
			last = append(last, d)
		}
	}

	s := &solver{setup: setup, finishers: make(map[int][]darts.Dart)}
	for _, d := range last {
		if out.Finishes(d) {
			s.finishers[d.Points] = append(s.finishers[d.Points], d)
		}
	}
	return s
}

// Suggest returns the best finishing line for remaining, or nil when the
// score cannot be finished in one visit.
func Suggest(remaining int, out darts.OutRule) []darts.Dart {
	lines := Alternatives(remaining, out, 1)
	if len(lines) == 0 {
		return nil
	}
	return lines[0]
}

// Alternatives returns up to n ranked finishing lines, all with the minimum
// number of darts.
func Alternatives(remaining int, out darts.OutRule, n int) [][]darts.Dart {
	if n <= 0 || remaining <= 1 || remaining > out.MaxCheckout() {
		return nil
	}
	s, ok := solvers[out]
	if !ok {
		return nil
	}

	var found []line
	for length := 1; length <= 3 && len(found) == 0; length++ {
		found = s.lines(remaining, length)
	}
	slices.SortStableFunc(found, func(a, b line) int {
		return cmp.Or(cmp.Compare(a.cost, b.cost), cmp.Compare(a.rank, b.rank))
	})

	res := make([][]darts.Dart, 0, min(n, len(found)))
	for _, l := range found[:min(n, len(found))] {
		res = append(res, l.darts)
	}
	return res
}

// Finishable reports whether remaining can be finished in one visit.
func Finishable(remaining int, out darts.OutRule) bool {
	return len(Suggest(remaining, out)) > 0
}

type line struct {
	darts []darts.Dart
	cost  int
	rank  int // position of the last dart in popular, len(popular) if absent
}

func (s *solver) lines(remaining, length int) []line {
	var found []line
	emit := func(setup ...darts.Dart) {
		rem := remaining - darts.Sum(setup)
		for _, f := range s.finishers[rem] {
			ds := append(slices.Clone(setup), f)
			found = append(found, line{darts: ds, cost: cost(ds), rank: finishRank(f)})
		}
	}

	switch length {
	case 1:
		emit()
	case 2:
		for _, a := range s.setup {
			if a.Points < remaining {
				emit(a)
			}
		}
	case 3:
		// Setup darts are unordered: T19 S20 and S20 T19 are one line.
		for i, a := range s.setup {
			for _, b := range s.setup[i:] {
				if a.Points+b.Points < remaining {
					emit(a, b)
				}
			}
		}
	}
	return found
}

// cost scores a line; lower is easier.
func cost(line []darts.Dart) int {
	total := 0
	for i, d := range line {
		total += dartCost(d, i == len(line)-1)
	}
	return total
}

func dartCost(d darts.Dart, last bool) int {
	switch {
	case last && slices.Contains(popular, d):
		return -1
	case d.Kind == darts.Triple:
		return 3
	case d.Kind == darts.Single && d.Face <= 5:
		return 3
	case !last && (d.Kind == darts.OuterBull || d.Kind == darts.InnerBull):
		return 4
	case !last && d.Kind == darts.Double:
		return 1
	}
	return 0
}

func finishRank(d darts.Dart) int {
	if i := slices.Index(popular, d); i >= 0 {
		return i
	}
	return len(popular)
}
