package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejdedart/dartscore/internal/darts"
)

func tokens(line []darts.Dart) []string { return darts.Tokens(line) }

func TestSuggest(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		out       darts.OutRule
		want      []string
	}{
		{name: "single dart double", remaining: 40, out: darts.DoubleOut, want: []string{"D20"}},
		{name: "bull finish", remaining: 50, out: darts.DoubleOut, want: []string{"DB"}},
		{name: "lowest double", remaining: 2, out: darts.DoubleOut, want: []string{"D1"}},
		{name: "odd needs setup", remaining: 3, out: darts.DoubleOut, want: []string{"S1", "D1"}},
		{name: "ton", remaining: 100, out: darts.DoubleOut, want: []string{"T20", "D20"}},
		{name: "sixty", remaining: 60, out: darts.DoubleOut, want: []string{"S20", "D20"}},
		{name: "big fish", remaining: 170, out: darts.DoubleOut, want: []string{"T20", "T20", "DB"}},
		{name: "master out triple", remaining: 57, out: darts.MasterOut, want: []string{"T19"}},
		{name: "maximum straight", remaining: 180, out: darts.StraightOut, want: []string{"T20", "T20", "T20"}},
		{name: "straight single", remaining: 19, out: darts.StraightOut, want: []string{"S19"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokens(Suggest(tt.remaining, tt.out)))
		})
	}
}

func TestSuggestUnfinishable(t *testing.T) {
	tests := []struct {
		remaining int
		out       darts.OutRule
	}{
		{1, darts.DoubleOut},
		{0, darts.DoubleOut},
		{-5, darts.DoubleOut},
		{1, darts.StraightOut},
		{171, darts.DoubleOut},
		{169, darts.DoubleOut},
		{168, darts.DoubleOut},
		{166, darts.DoubleOut},
		{165, darts.DoubleOut},
		{163, darts.DoubleOut},
		{162, darts.DoubleOut},
		{159, darts.DoubleOut},
		{181, darts.StraightOut},
		{501, darts.MasterOut},
	}

	for _, tt := range tests {
		assert.Empty(t, Suggest(tt.remaining, tt.out), "%d %s", tt.remaining, tt.out)
		assert.False(t, Finishable(tt.remaining, tt.out))
	}
}

// minDarts finds the shortest finish by plain brute force over the board,
// independent of the solver's ordering and pruning.
func minDarts(remaining int, out darts.OutRule) int {
	board := darts.Board()
	for _, f := range board {
		if out.Finishes(f) && f.Points == remaining {
			return 1
		}
	}
	for _, a := range board {
		for _, f := range board {
			if out.Finishes(f) && a.Points+f.Points == remaining {
				return 2
			}
		}
	}
	for _, a := range board {
		for _, b := range board {
			for _, f := range board {
				if out.Finishes(f) && a.Points+b.Points+f.Points == remaining {
					return 3
				}
			}
		}
	}
	return 0
}

func TestSuggestIsValidAndShortest(t *testing.T) {
	for _, out := range []darts.OutRule{darts.DoubleOut, darts.MasterOut, darts.StraightOut} {
		for remaining := 2; remaining <= out.MaxCheckout(); remaining++ {
			line := Suggest(remaining, out)
			want := minDarts(remaining, out)

			require.Len(t, line, want, "%s %d: %v", out, remaining, tokens(line))
			if want == 0 {
				continue
			}
			assert.Equal(t, remaining, darts.Sum(line), "%s %d", out, remaining)
			assert.True(t, out.Finishes(line[len(line)-1]), "%s %d: %v", out, remaining, tokens(line))
		}
	}
}

func TestAlternatives(t *testing.T) {
	lines := Alternatives(60, darts.DoubleOut, 3)
	require.Len(t, lines, 3)

	seen := make(map[string]bool)
	for _, line := range lines {
		assert.Len(t, line, 2)
		assert.Equal(t, 60, darts.Sum(line))
		assert.True(t, darts.DoubleOut.Finishes(line[1]))

		key := line[0].Token() + " " + line[1].Token()
		assert.False(t, seen[key], "duplicate line %s", key)
		seen[key] = true
	}
	assert.Equal(t, Suggest(60, darts.DoubleOut), lines[0])

	// 100 only has two two-dart finishes.
	assert.Len(t, Alternatives(100, darts.DoubleOut, 3), 2)
}

func TestAlternativesNeverMixLengths(t *testing.T) {
	// 40 has exactly one single-dart finish under double out; two-dart
	// lines must not pad the list.
	lines := Alternatives(40, darts.DoubleOut, 5)
	require.Len(t, lines, 1)
	assert.Equal(t, []string{"D20"}, tokens(lines[0]))
}

func TestAlternativesUnorderedSetup(t *testing.T) {
	for _, line := range Alternatives(121, darts.DoubleOut, 500) {
		require.Len(t, line, 3)
		assert.GreaterOrEqual(t, line[0].Points, line[1].Points, "%v", tokens(line))
	}
}

func TestAlternativesBadInput(t *testing.T) {
	assert.Nil(t, Alternatives(100, darts.DoubleOut, 0))
	assert.Nil(t, Alternatives(100, darts.OutRule("triple"), 3))
}

func TestDeterministic(t *testing.T) {
	for remaining := 2; remaining <= 170; remaining++ {
		assert.Equal(t,
			Alternatives(remaining, darts.DoubleOut, 3),
			Alternatives(remaining, darts.DoubleOut, 3),
		)
	}
}
