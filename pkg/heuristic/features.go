// Package heuristic scores backgammon positions for the search and the
// greedy agents.
//
// Every feature is a pure function of a state and the player whose point
// of view it takes, so the same code scores both sides.
package heuristic

import (
	"math"

	"github.com/yourusername/bgagents/pkg/game"
)

// Bounds is the range a raw feature value is scaled from.
type Bounds struct {
	Min, Max float64
}

// Feature bounds.
var (
	VulnerabilityBounds = Bounds{0, 15}
	HittingBounds       = Bounds{0, 15}
	BlockingBounds      = Bounds{0, 27}
	BearInBounds        = Bounds{0, 15}
	BearOffBounds       = Bounds{0, 15}
)

// Normalize min-max scales x to b. Values outside b are not clamped.
func (b Bounds) Normalize(x float64) float64 {
	return Normalize(x, b.Min, b.Max)
}

// Normalize min-max scales x from [min, max] onto [0, 1].
func Normalize(x, min, max float64) float64 {
	return (x - min) / (max - min)
}

// quadrantWeight is 3 for p's home quadrant and drops by one per quadrant
// away from it.
func quadrantWeight(p game.Player, q int) float64 {
	d := q - p.HomeQuadrant()
	if d < 0 {
		d = -d
	}
	return float64(game.Quadrants - 1 - d)
}

// weightedPoints sums, over quadrants, the number of points matching want
// times the quadrant weight.
func weightedPoints(s *game.State, p game.Player, want func(n int) bool) float64 {
	score := 0.0
	for q := 0; q < game.Quadrants; q++ {
		n := 0
		for _, pt := range s.Quadrant(q) {
			if want(pt.Holds(p)) {
				n++
			}
		}
		score += float64(n) * quadrantWeight(p, q)
	}
	return score
}

// Vulnerability is high when p leaves few blots, counting blots near home
// most heavily.
func Vulnerability(s *game.State, p game.Player) float64 {
	raw := weightedPoints(s, p, func(n int) bool { return n == 1 })
	return 1 - VulnerabilityBounds.Normalize(raw)
}

// Hitting rewards opposing checkers on the bar and penalises p's own at
// half weight.
func Hitting(s *game.State, p game.Player) float64 {
	raw := float64(s.Bar[p.Opponent()]) - float64(s.Bar[p])/2
	return HittingBounds.Normalize(raw)
}

// Blocking rewards made points, weighted toward home.
func Blocking(s *game.State, p game.Player) float64 {
	raw := weightedPoints(s, p, func(n int) bool { return n >= 2 })
	return BlockingBounds.Normalize(raw)
}

// BearIn rewards p's checkers in its home quadrant and penalises, at half
// weight, opposing checkers sitting in that same quadrant.
func BearIn(s *game.State, p game.Player) float64 {
	own, opp := 0, 0
	for _, pt := range s.Quadrant(p.HomeQuadrant()) {
		own += pt.Holds(p)
		opp += pt.Holds(p.Opponent())
	}
	raw := float64(own) - float64(opp)/2
	return BearInBounds.Normalize(raw)
}

// BearOff is the borne-off lead of p.
func BearOff(s *game.State, p game.Player) float64 {
	raw := float64(s.Off[p] - s.Off[p.Opponent()])
	return BearOffBounds.Normalize(raw)
}

// Terminal is +Inf when p has won, -Inf when p has lost and 0 otherwise.
func Terminal(s *game.State, p game.Player) float64 {
	switch {
	case s.Off[p] == game.Checkers:
		return math.Inf(1)
	case s.Off[p.Opponent()] == game.Checkers:
		return math.Inf(-1)
	}
	return 0
}

// Features holds every feature of a position from one side.
type Features struct {
	Vulnerability float64
	Hitting       float64
	Blocking      float64
	BearIn        float64
	BearOff       float64
	Terminal      float64
}

// Extract computes all features of s from p's point of view.
func Extract(s *game.State, p game.Player) Features {
	return Features{
		Vulnerability: Vulnerability(s, p),
		Hitting:       Hitting(s, p),
		Blocking:      Blocking(s, p),
		BearIn:        BearIn(s, p),
		BearOff:       BearOff(s, p),
		Terminal:      Terminal(s, p),
	}
}

func (f Features) vector() []float64 {
	return []float64{f.Vulnerability, f.Hitting, f.Blocking, f.BearIn, f.BearOff, f.Terminal}
}
