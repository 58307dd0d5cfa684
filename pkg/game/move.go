package game

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxSubMoves is the number of checker moves granted by a double.
const MaxSubMoves = 4

// ErrInvalidMove is returned by ParseMove.
var ErrInvalidMove = errors.New("invalid move")

// Location is a point index (0-23) or one of the Bar and Off markers.
type Location int8

const (
	// Bar is the start of a checker entering from the bar.
	Bar Location = -1
	// Off is the end of a checker bearing off.
	Off Location = -2
)

// IsPoint reports whether l is a grid index.
func (l Location) IsPoint() bool {
	return l >= 0 && l < NumPoints
}

func (l Location) String() string {
	switch l {
	case Bar:
		return "bar"
	case Off:
		return "off"
	}
	return strconv.Itoa(int(l))
}

func parseLocation(s string) (Location, error) {
	switch strings.ToLower(s) {
	case "bar", "on":
		return Bar, nil
	case "off":
		return Off, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= NumPoints {
		return 0, fmt.Errorf("%w: bad location %q", ErrInvalidMove, s)
	}
	return Location(n), nil
}

// SubMove moves one checker.
type SubMove struct {
	From Location
	To   Location
}

func (sm SubMove) String() string {
	return sm.From.String() + "/" + sm.To.String()
}

// Move is the full play for one roll: two sub-moves for a regular roll,
// up to four for a double, fewer when the dice cannot all be used. A nil
// Move means no move is possible.
type Move []SubMove

// Equal reports whether both moves consist of the same sub-moves in the
// same order.
func (m Move) Equal(o Move) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i] != o[i] {
			return false
		}
	}
	return true
}

// Contains reports whether sm is one of the move's sub-moves.
func (m Move) Contains(sm SubMove) bool {
	for _, step := range m {
		if step == sm {
			return true
		}
	}
	return false
}

func (m Move) String() string {
	if len(m) == 0 {
		return "pass"
	}
	parts := make([]string, len(m))
	for i, sm := range m {
		parts[i] = sm.String()
	}
	return strings.Join(parts, " ")
}

// Notation writes m in standard backgammon notation from p's side: points
// 1-24 counted from p's ace point, "bar" and "off". A pass is empty.
func (m Move) Notation(p Player) string {
	parts := make([]string, len(m))
	for i, sm := range m {
		parts[i] = sm.From.notation(p) + "/" + sm.To.notation(p)
	}
	return strings.Join(parts, " ")
}

func (l Location) notation(p Player) string {
	if !l.IsPoint() {
		return l.String()
	}
	return strconv.Itoa(p.Pip(int(l)) + 1)
}

// ParseMove reads the String form of a move, e.g. "bar/20 5/off".
// "pass" and the empty string give a nil Move.
func ParseMove(s string) (Move, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || (len(fields) == 1 && strings.EqualFold(fields[0], "pass")) {
		return nil, nil
	}
	if len(fields) > MaxSubMoves {
		return nil, fmt.Errorf("%w: %d sub-moves", ErrInvalidMove, len(fields))
	}

	m := make(Move, 0, len(fields))
	for _, f := range fields {
		from, to, ok := strings.Cut(f, "/")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not from/to", ErrInvalidMove, f)
		}
		var sm SubMove
		var err error
		if sm.From, err = parseLocation(from); err != nil {
			return nil, err
		}
		if sm.To, err = parseLocation(to); err != nil {
			return nil, err
		}
		if sm.From == Off || sm.To == Bar {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMove, f)
		}
		m = append(m, sm)
	}
	return m, nil
}

// Captures records which sub-moves of an applied move hit an opposing
// blot, bit i standing for sub-move i. It is all UndoMove needs to put
// the hit checkers back.
type Captures uint8

// Hit reports whether sub-move i sent a checker to the bar.
func (c Captures) Hit(i int) bool {
	return c&(1<<uint(i)) != 0
}

// Count returns the number of checkers hit.
func (c Captures) Count() int {
	return bits.OnesCount8(uint8(c))
}

// ApplyMove plays m for p, sending any hit blot to the bar. The move is
// trusted to be legal.
func (s *State) ApplyMove(m Move, p Player) Captures {
	var caps Captures
	for i, sm := range m {
		if s.applyStep(sm, p) {
			caps |= 1 << uint(i)
		}
	}
	return caps
}

// UndoMove restores the state ApplyMove(m, p) started from, given the
// captures it returned.
func (s *State) UndoMove(m Move, p Player, caps Captures) {
	for i := len(m) - 1; i >= 0; i-- {
		s.undoStep(m[i], p, caps.Hit(i))
	}
}

func (s *State) applyStep(sm SubMove, p Player) (hit bool) {
	if sm.From == Bar {
		s.Bar[p]--
	} else {
		s.Grid[sm.From] = Stack(p, s.Grid[sm.From].Count()-1)
	}

	if sm.To == Off {
		s.Off[p]++
		return false
	}

	opp := p.Opponent()
	dest := s.Grid[sm.To]
	if dest.Holds(opp) == 1 {
		s.Bar[opp]++
		s.Grid[sm.To] = Stack(p, 1)
		return true
	}
	s.Grid[sm.To] = Stack(p, dest.Holds(p)+1)
	return false
}

func (s *State) undoStep(sm SubMove, p Player, hit bool) {
	if sm.To == Off {
		s.Off[p]--
	} else if hit {
		opp := p.Opponent()
		s.Bar[opp]--
		s.Grid[sm.To] = Stack(opp, 1)
	} else {
		s.Grid[sm.To] = Stack(p, s.Grid[sm.To].Count()-1)
	}

	if sm.From == Bar {
		s.Bar[p]++
	} else {
		s.Grid[sm.From] = Stack(p, s.Grid[sm.From].Holds(p)+1)
	}
}
