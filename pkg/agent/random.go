package agent

import (
	"golang.org/x/exp/rand"

	"github.com/yourusername/bgagents/pkg/game"
)

// Random plays a uniformly random legal move.
type Random struct {
	player game.Player
	rng    *rand.Rand
}

// NewRandom returns a random agent for p.
func NewRandom(p game.Player, rng *rand.Rand) *Random {
	return &Random{player: p, rng: rng}
}

func (a *Random) Name() string { return "Random" }

func (a *Random) SelectMove(legal []game.Move, _ *game.State) (game.Move, error) {
	if len(legal) == 0 {
		return nil, nil
	}
	return legal[a.rng.Intn(len(legal))], nil
}
