package agent

import (
	"golang.org/x/exp/rand"

	"github.com/yourusername/bgagents/pkg/game"
)

// Capture plays the first move that hits an opposing blot and otherwise a
// random move.
type Capture struct {
	player game.Player
	rng    *rand.Rand
}

// NewCapture returns a capture-seeking agent for p drawing its fallback
// moves from rng.
func NewCapture(p game.Player, rng *rand.Rand) *Capture {
	return &Capture{player: p, rng: rng}
}

func (a *Capture) Name() string { return "Eater" }

// SelectMove scans moves and their sub-moves in order and returns the
// first move with a sub-move landing on a point that holds exactly one
// opposing checker in s.
func (a *Capture) SelectMove(legal []game.Move, s *game.State) (game.Move, error) {
	if len(legal) == 0 {
		return nil, nil
	}

	opp := s.OpponentOf(a.player)
	for _, m := range legal {
		for _, sm := range m {
			if sm.To.IsPoint() && s.Grid[sm.To].Holds(opp) == 1 {
				return m, nil
			}
		}
	}
	return legal[a.rng.Intn(len(legal))], nil
}
