package game

import (
	"fmt"

	"github.com/yourusername/bgagents/internal/positionid"
)

// board converts the state to the gnubg layout with onRoll as side 1.
// Borne-off checkers are implicit in that layout.
func (s *State) board(onRoll Player) positionid.Board {
	var b positionid.Board
	for _, p := range Players {
		side := 0
		if p == X {
			side = 1
		}
		for pip := 0; pip < NumPoints; pip++ {
			b[side][pip] = uint8(s.Grid[p.point(pip)].Holds(p))
		}
		b[side][24] = uint8(s.Bar[p])
	}
	if onRoll == O {
		return positionid.SwapSides(b)
	}
	return b
}

// Key returns a compact key identifying the position as seen by onRoll.
func (s *State) Key(onRoll Player) positionid.PositionKey {
	return positionid.MakePositionKey(s.board(onRoll))
}

// PositionID returns the gnubg position ID with onRoll as the player on
// roll.
func (s *State) PositionID(onRoll Player) string {
	return positionid.PositionID(s.board(onRoll))
}

// FromPositionID decodes a gnubg position ID whose player on roll is
// onRoll. Checkers missing from the board are counted as borne off.
func FromPositionID(id string, onRoll Player) (*State, error) {
	b, err := positionid.BoardFromPositionID(id)
	if err != nil {
		return nil, err
	}

	s := &State{}
	for side, p := range [2]Player{onRoll.Opponent(), onRoll} {
		for pip := 0; pip < NumPoints; pip++ {
			if n := int(b[side][pip]); n > 0 {
				s.Grid[p.point(pip)] = Stack(p, n)
			}
		}
		s.Bar[p] = int(b[side][24])
		s.Off[p] = Checkers - s.OnBoard(p) - s.Bar[p]
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("position %s: %w", id, err)
	}
	return s, nil
}
