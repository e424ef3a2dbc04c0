package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejdedart/dartscore/internal/checkout"
	"github.com/ejdedart/dartscore/internal/darts"
)

var (
	doubleOut = Rules{In: StraightIn, Out: darts.DoubleOut}
	doubleIn  = Rules{In: DoubleIn, Out: darts.DoubleOut}
)

func visit(t *testing.T, tokens ...string) []darts.Dart {
	t.Helper()
	ds, err := darts.ParseAll(tokens)
	require.NoError(t, err)
	return ds
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		before int
		turn   []string
		rules  Rules
		want   Outcome
	}{
		{
			name:   "plain score",
			before: 501, turn: []string{"T20", "T20", "T20"}, rules: doubleOut,
			want: Outcome{PointsRaw: 180, PointsCounted: 180, ScoreAfter: 321, IsIn: true},
		},
		{
			name:   "checkout on double",
			before: 40, turn: []string{"D20"}, rules: doubleOut,
			want: Outcome{PointsRaw: 40, PointsCounted: 40, ScoreAfter: 0, Checkout: true, IsIn: true},
		},
		{
			name:   "checkout on bull",
			before: 100, turn: []string{"T10", "S20", "DB"}, rules: doubleOut,
			want: Outcome{PointsRaw: 100, PointsCounted: 100, ScoreAfter: 0, Checkout: true, IsIn: true},
		},
		{
			name:   "below zero",
			before: 10, turn: []string{"T20"}, rules: doubleOut,
			want: Outcome{PointsRaw: 60, PointsCounted: 60, ScoreAfter: 10, Bust: true, IsIn: true},
		},
		{
			name:   "left on one",
			before: 41, turn: []string{"D20"}, rules: doubleOut,
			want: Outcome{PointsRaw: 40, PointsCounted: 40, ScoreAfter: 41, Bust: true, IsIn: true},
		},
		{
			name:   "zero on a single",
			before: 20, turn: []string{"S20"}, rules: doubleOut,
			want: Outcome{PointsRaw: 20, PointsCounted: 20, ScoreAfter: 20, Bust: true, IsIn: true},
		},
		{
			name:   "miss after reaching zero",
			before: 40, turn: []string{"D20", "MISS"}, rules: doubleOut,
			want: Outcome{PointsRaw: 40, PointsCounted: 40, ScoreAfter: 40, Bust: true, IsIn: true},
		},
		{
			name:   "outer bull does not finish",
			before: 25, turn: []string{"SB"}, rules: doubleOut,
			want: Outcome{PointsRaw: 25, PointsCounted: 25, ScoreAfter: 25, Bust: true, IsIn: true},
		},
		{
			name:   "master out on triple",
			before: 60, turn: []string{"T20"}, rules: Rules{In: StraightIn, Out: darts.MasterOut},
			want: Outcome{PointsRaw: 60, PointsCounted: 60, ScoreAfter: 0, Checkout: true, IsIn: true},
		},
		{
			name:   "master out left on one",
			before: 61, turn: []string{"T20"}, rules: Rules{In: StraightIn, Out: darts.MasterOut},
			want: Outcome{PointsRaw: 60, PointsCounted: 60, ScoreAfter: 61, Bust: true, IsIn: true},
		},
		{
			name:   "straight out on single",
			before: 20, turn: []string{"S20"}, rules: Rules{In: StraightIn, Out: darts.StraightOut},
			want: Outcome{PointsRaw: 20, PointsCounted: 20, ScoreAfter: 0, Checkout: true, IsIn: true},
		},
		{
			name:   "straight out may leave one",
			before: 21, turn: []string{"S20"}, rules: Rules{In: StraightIn, Out: darts.StraightOut},
			want: Outcome{PointsRaw: 20, PointsCounted: 20, ScoreAfter: 1, IsIn: true},
		},
		{
			name:   "double in without a double",
			before: 501, turn: []string{"S20", "T20", "SB"}, rules: doubleIn,
			want: Outcome{PointsRaw: 105, PointsCounted: 0, ScoreAfter: 501},
		},
		{
			name:   "double in counts from the double",
			before: 501, turn: []string{"S20", "D10", "T20"}, rules: doubleIn,
			want: Outcome{PointsRaw: 100, PointsCounted: 80, ScoreAfter: 421, BecameIn: true, IsIn: true},
		},
		{
			name:   "double in on the bull",
			before: 501, turn: []string{"DB"}, rules: doubleIn,
			want: Outcome{PointsRaw: 50, PointsCounted: 50, ScoreAfter: 451, BecameIn: true, IsIn: true},
		},
		{
			name:   "double in then bust stays in",
			before: 30, turn: []string{"D20"}, rules: doubleIn,
			want: Outcome{PointsRaw: 40, PointsCounted: 40, ScoreAfter: 30, Bust: true, BecameIn: true, IsIn: true},
		},
		{
			name:   "empty visit",
			before: 100, turn: nil, rules: doubleOut,
			want: Outcome{ScoreAfter: 100, IsIn: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.before, visit(t, tt.turn...), tt.rules, false)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateAlreadyIn(t *testing.T) {
	got := Evaluate(501, visit(t, "S20", "S20"), doubleIn, true)
	assert.Equal(t, 40, got.PointsCounted)
	assert.Equal(t, 461, got.ScoreAfter)
	assert.False(t, got.BecameIn)
	assert.True(t, got.IsIn)
}

func TestEvaluateCheckoutForEverySuggestedLine(t *testing.T) {
	for s := 2; s <= 170; s++ {
		line := checkout.Suggest(s, darts.DoubleOut)
		if len(line) == 0 {
			continue
		}
		o := Evaluate(s, line, doubleOut, true)
		assert.True(t, o.Checkout, "%d %v", s, darts.Tokens(line))
		assert.Zero(t, o.ScoreAfter, "%d", s)
		assert.Equal(t, s, o.PointsCounted, "%d", s)
	}
}

func TestEvaluateLeavingOneAlwaysBusts(t *testing.T) {
	for _, d := range darts.Board() {
		before := d.Points + 1
		o := Evaluate(before, []darts.Dart{d}, doubleOut, true)
		assert.True(t, o.Bust, "%s from %d", d, before)
		assert.Equal(t, before, o.ScoreAfter)
	}
}

func TestEvaluateBelowZeroAlwaysBusts(t *testing.T) {
	for _, d := range darts.Board() {
		for before := 2; before < d.Points; before++ {
			o := Evaluate(before, []darts.Dart{d}, doubleOut, true)
			require.True(t, o.Bust, "%s from %d", d, before)
			require.Equal(t, before, o.ScoreAfter)
		}
	}
}

func TestEvaluateDoubleInWithoutDoubleCountsNothing(t *testing.T) {
	var nonDoubles []darts.Dart
	for _, d := range darts.Board() {
		if !d.IsDouble() {
			nonDoubles = append(nonDoubles, d)
		}
	}
	for _, a := range nonDoubles {
		for _, b := range nonDoubles {
			o := Evaluate(301, []darts.Dart{a, b}, doubleIn, false)
			require.Zero(t, o.PointsCounted)
			require.False(t, o.IsIn)
			require.Equal(t, 301, o.ScoreAfter)
		}
	}
}

func TestParseInRule(t *testing.T) {
	r, err := ParseInRule("")
	require.NoError(t, err)
	assert.Equal(t, StraightIn, r)

	r, err = ParseInRule(" Double ")
	require.NoError(t, err)
	assert.Equal(t, DoubleIn, r)

	_, err = ParseInRule("triple")
	assert.ErrorIs(t, err, darts.ErrUnknownRule)
}
