package external

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/bgagents/pkg/game"
)

// ErrInvalidBoard is returned for malformed FIBS board strings.
var ErrInvalidBoard = errors.New("invalid fibs board")

// minFields is the number of fields up to and including the opponent's bar
// count. gnubg sends 52; the trailing flags are optional here.
const minFields = 48

// FIBSBoard is a parsed FIBS "board:" line. Board values are signed by
// Color: checkers with the same sign as Color belong to the player on roll.
type FIBSBoard struct {
	Player        string
	Opponent      string
	MatchLength   int
	Score         int
	OpponentScore int

	Board [26]int // 1-24 are points, 0 and 25 the bars

	Turn         int
	Dice         [2]int
	OpponentDice [2]int
	Cube         int

	MayDouble         bool
	OpponentMayDouble bool
	WasDoubled        bool

	Color     int // -1 or 1
	Direction int // -1 moves from 24 towards 1, 1 from 1 towards 24
	Home      int
	BarIndex  int

	OnHome         int
	OpponentOnHome int
	OnBar          int
	OpponentOnBar  int

	CanMove     int
	ForcedMove  bool
	DidCrawford bool
	Redoubles   int
}

// ParseFIBSBoard parses a line of the form "board:You:Opp:...".
func ParseFIBSBoard(line string) (FIBSBoard, error) {
	var fb FIBSBoard
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "board:")
	if !ok {
		return fb, fmt.Errorf("%w: missing board: prefix", ErrInvalidBoard)
	}
	parts := strings.Split(rest, ":")
	if len(parts) < minFields {
		return fb, fmt.Errorf("%w: %d fields, want at least %d", ErrInvalidBoard, len(parts), minFields)
	}

	p := fieldParser{parts: parts}
	fb.Player = parts[0]
	fb.Opponent = parts[1]
	fb.MatchLength = p.int(2)
	fb.Score = p.int(3)
	fb.OpponentScore = p.int(4)
	for i := range fb.Board {
		fb.Board[i] = p.int(5 + i)
	}
	fb.Turn = p.int(31)
	fb.Dice = [2]int{p.int(32), p.int(33)}
	fb.OpponentDice = [2]int{p.int(34), p.int(35)}
	fb.Cube = p.int(36)
	fb.MayDouble = p.bool(37)
	fb.OpponentMayDouble = p.bool(38)
	fb.WasDoubled = p.bool(39)
	fb.Color = p.int(40)
	fb.Direction = p.int(41)
	fb.Home = p.int(42)
	fb.BarIndex = p.int(43)
	fb.OnHome = p.int(44)
	fb.OpponentOnHome = p.int(45)
	fb.OnBar = p.int(46)
	fb.OpponentOnBar = p.int(47)
	fb.CanMove = p.int(48)
	fb.ForcedMove = p.bool(49)
	fb.DidCrawford = p.bool(50)
	fb.Redoubles = p.int(51)
	if p.err != nil {
		return FIBSBoard{}, p.err
	}

	if fb.Color != -1 && fb.Color != 1 {
		return FIBSBoard{}, fmt.Errorf("%w: color %d", ErrInvalidBoard, fb.Color)
	}
	if fb.Direction != -1 && fb.Direction != 1 {
		return FIBSBoard{}, fmt.Errorf("%w: direction %d", ErrInvalidBoard, fb.Direction)
	}
	return fb, nil
}

// fieldParser reads numeric fields and keeps the first error. Fields past
// the end read as zero.
type fieldParser struct {
	parts []string
	err   error
}

func (p *fieldParser) int(i int) int {
	if i >= len(p.parts) || p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.parts[i]))
	if err != nil {
		p.err = fmt.Errorf("%w: field %d: %q is not a number", ErrInvalidBoard, i, p.parts[i])
		return 0
	}
	return n
}

func (p *fieldParser) bool(i int) bool {
	return p.int(i) != 0
}

// State returns the position with the player on roll as game.X. Points
// are mapped so that game.X's pips count from its own ace point whatever
// the board's direction.
func (fb FIBSBoard) State() (*game.State, error) {
	s := &game.State{}
	for i := 1; i <= game.NumPoints; i++ {
		v := fb.Board[i]
		if v == 0 {
			continue
		}
		owner := game.X
		if (v > 0) != (fb.Color > 0) {
			owner = game.O
		}
		n := v
		if n < 0 {
			n = -n
		}
		s.Grid[fb.grid(i)] = game.Stack(owner, n)
	}
	s.Bar[game.X] = fb.OnBar
	s.Bar[game.O] = fb.OpponentOnBar
	for _, p := range game.Players {
		s.Off[p] = game.Checkers - s.OnBoard(p) - s.Bar[p]
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}
	return s, nil
}

// grid maps FIBS point i (1-24) to the index seen by game.X.
func (fb FIBSBoard) grid(i int) int {
	if fb.Direction < 0 {
		return i - 1
	}
	return game.NumPoints - i
}

// Roll returns the dice of the player on roll. It reports false when they
// have not rolled yet.
func (fb FIBSBoard) Roll() (game.Outcome, bool, error) {
	if fb.Dice[0] == 0 && fb.Dice[1] == 0 {
		return game.Outcome{}, false, nil
	}
	o, err := game.NewOutcome(fb.Dice[0], fb.Dice[1])
	if err != nil {
		return game.Outcome{}, false, fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}
	return o, true, nil
}

// NewFIBSBoard describes s with onRoll to play roll, as the player moving
// from 24 towards 1 with negative checkers.
func NewFIBSBoard(s *game.State, onRoll game.Player, roll game.Outcome) FIBSBoard {
	opp := onRoll.Opponent()
	fb := FIBSBoard{
		Player:         "you",
		Opponent:       "opponent",
		Turn:           -1,
		Dice:           [2]int{roll.High, roll.Low},
		Cube:           1,
		Color:          -1,
		Direction:      -1,
		Home:           0,
		BarIndex:       25,
		OnBar:          s.Bar[onRoll],
		OnHome:         s.Off[onRoll],
		OpponentOnBar:  s.Bar[opp],
		OpponentOnHome: s.Off[opp],
		CanMove:        2,
	}
	fb.Board[25] = -s.Bar[onRoll]
	fb.Board[0] = s.Bar[opp]
	for g, pt := range s.Grid {
		i := onRoll.Pip(g) + 1
		if n := pt.Holds(onRoll); n > 0 {
			fb.Board[i] = -n
		} else if n := pt.Holds(opp); n > 0 {
			fb.Board[i] = n
		}
	}
	return fb
}

// String formats fb as a board: line with all 52 fields.
func (fb FIBSBoard) String() string {
	fields := []string{fb.Player, fb.Opponent}
	ints := func(vs ...int) {
		for _, v := range vs {
			fields = append(fields, strconv.Itoa(v))
		}
	}
	b := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	ints(fb.MatchLength, fb.Score, fb.OpponentScore)
	ints(fb.Board[:]...)
	ints(fb.Turn, fb.Dice[0], fb.Dice[1], fb.OpponentDice[0], fb.OpponentDice[1], fb.Cube)
	ints(b(fb.MayDouble), b(fb.OpponentMayDouble), b(fb.WasDoubled))
	ints(fb.Color, fb.Direction, fb.Home, fb.BarIndex)
	ints(fb.OnHome, fb.OpponentOnHome, fb.OnBar, fb.OpponentOnBar)
	ints(fb.CanMove, b(fb.ForcedMove), b(fb.DidCrawford), fb.Redoubles)
	return "board:" + strings.Join(fields, ":")
}
