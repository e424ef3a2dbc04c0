// Package darts defines a single thrown dart, its compact token notation
// and the out rules that decide which darts may finish a leg.
// It has zero external dependencies.
package darts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidToken is returned for anything Parse does not accept.
var ErrInvalidToken = errors.New("invalid dart token")

// Kind is the segment a dart landed in.
type Kind string

const (
	Single    Kind = "single"
	Double    Kind = "double"
	Triple    Kind = "triple"
	OuterBull Kind = "outer_bull"
	InnerBull Kind = "inner_bull"
	Miss      Kind = "miss"
)

// BullFace is the face value recorded for both bull segments.
const BullFace = 25

// Dart is one thrown dart. The zero value is not valid; use Parse or the
// constructors below.
type Dart struct {
	Kind   Kind
	Face   int
	Points int
}

var (
	Bull     = Dart{Kind: InnerBull, Face: BullFace, Points: 50}
	Outer    = Dart{Kind: OuterBull, Face: BullFace, Points: 25}
	MissDart = Dart{Kind: Miss}
)

func S(n int) Dart { return Dart{Kind: Single, Face: n, Points: n} }
func D(n int) Dart { return Dart{Kind: Double, Face: n, Points: 2 * n} }
func T(n int) Dart { return Dart{Kind: Triple, Face: n, Points: 3 * n} }

// IsDouble reports whether the dart counts as a double. The inner bull does.
func (d Dart) IsDouble() bool {
	return d.Kind == Double || d.Kind == InnerBull
}

// Token returns the canonical notation accepted by Parse.
func (d Dart) Token() string {
	switch d.Kind {
	case Single:
		return "S" + strconv.Itoa(d.Face)
	case Double:
		return "D" + strconv.Itoa(d.Face)
	case Triple:
		return "T" + strconv.Itoa(d.Face)
	case OuterBull:
		return "SB"
	case InnerBull:
		return "DB"
	default:
		return "MISS"
	}
}

func (d Dart) String() string { return d.Token() }

func (d Dart) MarshalText() ([]byte, error) {
	return []byte(d.Token()), nil
}

func (d *Dart) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse converts a token such as "T20", "DB" or "MISS" into a Dart.
// The multiplier letter is checked before the number, and the number
// before its range.
func Parse(token string) (Dart, error) {
	tok := strings.ToUpper(strings.TrimSpace(token))
	switch tok {
	case "MISS":
		return MissDart, nil
	case "SB":
		return Outer, nil
	case "DB":
		return Bull, nil
	case "":
		return Dart{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	var mk func(int) Dart
	switch tok[0] {
	case 'S':
		mk = S
	case 'D':
		mk = D
	case 'T':
		mk = T
	default:
		return Dart{}, fmt.Errorf("%w %q: unknown multiplier", ErrInvalidToken, token)
	}

	n, err := strconv.Atoi(tok[1:])
	if err != nil {
		return Dart{}, fmt.Errorf("%w %q: not a number", ErrInvalidToken, token)
	}
	if n < 1 || n > 20 {
		return Dart{}, fmt.Errorf("%w %q: face %d out of range", ErrInvalidToken, token, n)
	}
	return mk(n), nil
}

// ParseAll parses a whole visit. Nothing is returned if any token fails.
func ParseAll(tokens []string) ([]Dart, error) {
	out := make([]Dart, 0, len(tokens))
	for _, t := range tokens {
		d, err := Parse(t)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Tokens is the inverse of ParseAll.
func Tokens(ds []Dart) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Token()
	}
	return out
}

// Sum returns the total points of ds.
func Sum(ds []Dart) int {
	total := 0
	for _, d := range ds {
		total += d.Points
	}
	return total
}

// Board returns every distinct dart: singles, doubles and triples 1-20,
// both bulls and a miss. The order is fixed.
func Board() []Dart {
	board := make([]Dart, 0, 63)
	for n := 1; n <= 20; n++ {
		board = append(board, S(n))
	}
	for n := 1; n <= 20; n++ {
		board = append(board, D(n))
	}
	for n := 1; n <= 20; n++ {
		board = append(board, T(n))
	}
	return append(board, Outer, Bull, MissDart)
}
