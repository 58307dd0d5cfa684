package agent

import (
	"github.com/yourusername/bgagents/pkg/game"
)

// Block plays the move that leaves the most checkers on made points.
type Block struct {
	player game.Player
}

// NewBlock returns a block-building agent for p.
func NewBlock(p game.Player) *Block {
	return &Block{player: p}
}

func (a *Block) Name() string { return "Close" }

// SelectMove plays every candidate on a copy of s and keeps the first one
// maximising blockScore.
func (a *Block) SelectMove(legal []game.Move, s *game.State) (game.Move, error) {
	var best game.Move
	bestScore := -1
	for _, m := range legal {
		c := s.Clone()
		c.ApplyMove(m, a.player)
		if score := blockScore(c, a.player); score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, nil
}

// blockScore counts p's checkers on points where p has two or more.
func blockScore(s *game.State, p game.Player) int {
	n := 0
	for _, pt := range s.Grid {
		if c := pt.Holds(p); c > 1 {
			n += c
		}
	}
	return n
}
