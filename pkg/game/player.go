package game

import "fmt"

// Player identifies one of the two sides. The value doubles as the index
// into State.Bar and State.Off.
type Player uint8

const (
	// X moves from point 23 toward point 0 and bears off below point 0.
	X Player = iota
	// O moves from point 0 toward point 23 and bears off above point 23.
	O
)

// Players lists both sides in index order.
var Players = [2]Player{X, O}

// Opponent returns the other side.
func (p Player) Opponent() Player {
	return 1 - p
}

// HomeQuadrant returns the quadrant the player bears off from.
func (p Player) HomeQuadrant() int {
	if p == O {
		return Quadrants - 1
	}
	return 0
}

// point maps a distance from the player's bear-off edge (0 = the ace
// point, 23 = the farthest point) to a grid index.
func (p Player) point(pip int) int {
	if p == O {
		return NumPoints - 1 - pip
	}
	return pip
}

// Pip returns the distance of a grid point from p's bear-off edge, 0 for
// p's ace point. Adding one gives the point number in p's own notation.
func (p Player) Pip(point int) int {
	return p.point(point)
}

func (p Player) String() string {
	switch p {
	case X:
		return "x"
	case O:
		return "o"
	}
	return fmt.Sprintf("Player(%d)", uint8(p))
}

// ParsePlayer accepts "x" or "o" in either case.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "x", "X":
		return X, nil
	case "o", "O":
		return O, nil
	}
	return 0, fmt.Errorf("unknown player %q", s)
}
