// Package game implements the backgammon rules the agents search over:
// the board, dice outcomes, legal move generation and reversible move
// application.
//
// A *State is not safe for concurrent use and is never locked. Whoever
// holds it for the duration of a call owns it exclusively; an agent that
// mutates it during a search must restore it before returning.
package game

import (
	"errors"
	"fmt"
)

const (
	// NumPoints is the number of points on the board.
	NumPoints = 24
	// Checkers is the number of checkers each player starts with.
	Checkers = 15
	// Quadrants is the number of six-point quadrants.
	Quadrants = 4
	// QuadrantSize is the number of points in a quadrant.
	QuadrantSize = NumPoints / Quadrants
)

// ErrInvalidState is returned by Validate.
var ErrInvalidState = errors.New("invalid game state")

// Point is a stack of checkers of a single owner. Positive values count
// O checkers, negative values count X checkers and zero is an empty point,
// so the zero value is a valid empty point and states compare with ==.
type Point int8

// Stack returns a point holding n checkers of p.
func Stack(p Player, n int) Point {
	if p == X {
		return Point(-n)
	}
	return Point(n)
}

// Count returns the number of checkers on the point.
func (pt Point) Count() int {
	if pt < 0 {
		return int(-pt)
	}
	return int(pt)
}

// Owner returns the owner of a non-empty point.
func (pt Point) Owner() (Player, bool) {
	switch {
	case pt > 0:
		return O, true
	case pt < 0:
		return X, true
	}
	return 0, false
}

// Holds returns how many checkers of p sit on the point.
func (pt Point) Holds(p Player) int {
	if owner, ok := pt.Owner(); ok && owner == p {
		return pt.Count()
	}
	return 0
}

// State is a backgammon position.
type State struct {
	Grid [NumPoints]Point
	Bar  [2]int // checkers on the bar, indexed by Player
	Off  [2]int // checkers borne off, indexed by Player
}

// NewState returns the standard starting position.
func NewState() *State {
	s := &State{}
	for _, p := range Players {
		s.Grid[p.point(23)] = Stack(p, 2)
		s.Grid[p.point(12)] = Stack(p, 5)
		s.Grid[p.point(7)] = Stack(p, 3)
		s.Grid[p.point(5)] = Stack(p, 5)
	}
	return s
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := *s
	return &c
}

// OpponentOf returns the side playing against p.
func (s *State) OpponentOf(p Player) Player {
	return p.Opponent()
}

// Quadrant returns the six points of quadrant q (0-3).
func (s *State) Quadrant(q int) []Point {
	return s.Grid[q*QuadrantSize : (q+1)*QuadrantSize]
}

// OnBoard counts p's checkers on the grid.
func (s *State) OnBoard(p Player) int {
	n := 0
	for _, pt := range s.Grid {
		n += pt.Holds(p)
	}
	return n
}

// IsTerminal reports whether either side has borne off every checker.
func (s *State) IsTerminal() bool {
	return s.Off[X] == Checkers || s.Off[O] == Checkers
}

// Winner returns the side that has borne off every checker.
func (s *State) Winner() (Player, bool) {
	for _, p := range Players {
		if s.Off[p] == Checkers {
			return p, true
		}
	}
	return 0, false
}

// Validate checks the checker-count invariant. Positions built by this
// package always satisfy it; the check is meant for positions decoded
// from user input.
func (s *State) Validate() error {
	for _, p := range Players {
		if s.Bar[p] < 0 || s.Off[p] < 0 {
			return fmt.Errorf("%w: negative bar or off count for %s", ErrInvalidState, p)
		}
		if total := s.OnBoard(p) + s.Bar[p] + s.Off[p]; total != Checkers {
			return fmt.Errorf("%w: %s has %d checkers", ErrInvalidState, p, total)
		}
	}
	if s.Off[X] == Checkers && s.Off[O] == Checkers {
		return fmt.Errorf("%w: both sides have borne off", ErrInvalidState)
	}
	return nil
}

// allHome reports whether every checker p still has in play sits in its
// home quadrant.
func (s *State) allHome(p Player) bool {
	if s.Bar[p] > 0 {
		return false
	}
	for pip := QuadrantSize; pip < NumPoints; pip++ {
		if s.Grid[p.point(pip)].Holds(p) > 0 {
			return false
		}
	}
	return true
}

// rearmost returns the pip of p's checker farthest from bearing off, or
// -1 when p has none on the grid.
func (s *State) rearmost(p Player) int {
	for pip := NumPoints - 1; pip >= 0; pip-- {
		if s.Grid[p.point(pip)].Holds(p) > 0 {
			return pip
		}
	}
	return -1
}
