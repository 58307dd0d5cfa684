package game

import (
	"github.com/yourusername/bgagents/internal/positionid"
)

// moveGen collects the legal moves for one roll. Only moves using the
// most dice are kept, and among those the ones using the most pips, so a
// single playable die must be the larger one.
type moveGen struct {
	player  Player
	double  bool
	maxUsed int
	maxPips int
	moves   []Move
	seen    map[positionid.PositionKey]struct{}
}

// LegalMoves returns every distinct legal play of roll o for p. Plays that
// lead to the same position are reported once. The result is nil when p
// cannot move. The order is deterministic.
func (s *State) LegalMoves(o Outcome, p Player) []Move {
	g := &moveGen{
		player: p,
		double: o.IsDouble(),
		seen:   make(map[positionid.PositionKey]struct{}),
	}

	dice := o.Dice()
	g.expand(*s, dice, 0, NumPoints-1, 0, nil)
	if !g.double {
		dice[0], dice[1] = dice[1], dice[0]
		g.expand(*s, dice, 0, NumPoints-1, 0, nil)
	}
	return g.moves
}

// expand plays dice[depth:] on s. top is the highest pip a checker may be
// moved from; for doubles it never increases, which avoids generating the
// same set of sub-moves in every order.
func (g *moveGen) expand(s State, dice []int, depth, top, pips int, steps Move) {
	if depth == len(dice) {
		g.save(s, steps, pips)
		return
	}

	p := g.player
	die := dice[depth]
	moved := false

	if s.Bar[p] > 0 {
		if to, ok := s.entry(p, die); ok {
			sm := SubMove{From: Bar, To: to}
			next := s
			next.applyStep(sm, p)
			g.expand(next, dice, depth+1, top, pips+die, append(steps[:len(steps):len(steps)], sm))
			moved = true
		}
	} else {
		for pip := top; pip >= 0; pip-- {
			from := p.point(pip)
			if s.Grid[from].Holds(p) == 0 {
				continue
			}
			to, ok := s.destination(p, pip, die)
			if !ok {
				continue
			}
			sm := SubMove{From: Location(from), To: to}
			next := s
			next.applyStep(sm, p)
			nextTop := NumPoints - 1
			if g.double {
				nextTop = pip
			}
			g.expand(next, dice, depth+1, nextTop, pips+die, append(steps[:len(steps):len(steps)], sm))
			moved = true
		}
	}

	if !moved {
		g.save(s, steps, pips)
	}
}

// entry returns where a checker of p enters with die, if that point is open.
func (s *State) entry(p Player, die int) (Location, bool) {
	to := p.point(NumPoints - die)
	if s.Grid[to].Holds(p.Opponent()) >= 2 {
		return 0, false
	}
	return Location(to), true
}

// destination returns where a checker of p at pip lands with die.
func (s *State) destination(p Player, pip, die int) (Location, bool) {
	target := pip - die
	if target >= 0 {
		to := p.point(target)
		if s.Grid[to].Holds(p.Opponent()) >= 2 {
			return 0, false
		}
		return Location(to), true
	}

	if !s.allHome(p) {
		return 0, false
	}
	if target == -1 || pip == s.rearmost(p) {
		return Off, true
	}
	return 0, false
}

func (g *moveGen) save(s State, steps Move, pips int) {
	if len(steps) == 0 {
		return
	}
	switch {
	case len(steps) < g.maxUsed:
		return
	case len(steps) > g.maxUsed:
		g.reset()
		g.maxUsed, g.maxPips = len(steps), pips
	case pips < g.maxPips:
		return
	case pips > g.maxPips:
		g.reset()
		g.maxPips = pips
	}

	key := positionid.MakePositionKey(s.board(g.player))
	if _, dup := g.seen[key]; dup {
		return
	}
	g.seen[key] = struct{}{}
	g.moves = append(g.moves, steps)
}

func (g *moveGen) reset() {
	g.moves = g.moves[:0]
	clear(g.seen)
}
