package heuristic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/yourusername/bgagents/pkg/game"
)

func TestScoreStartingPosition(t *testing.T) {
	s := game.NewState()
	want := 0.4*1 + 0.01*6/27 + 0.4*4/15 - (0.4*6/27 + 0.2*4/15)
	for _, p := range game.Players {
		require.InDelta(t, want, Score(s, p), 1e-12)
	}
}

func TestScoreTerminal(t *testing.T) {
	s := &game.State{}
	s.Off[game.X] = game.Checkers
	s.Grid[20] = game.Stack(game.O, 10)
	s.Off[game.O] = 5

	require.True(t, math.IsInf(Score(s, game.X), 1))
	require.True(t, math.IsInf(Score(s, game.O), -1))
	require.True(t, math.IsInf(NewEvaluator(game.O).Evaluate(s), -1))
}

// playout walks a random game and calls visit on every position reached.
func playout(rng *rand.Rand, visit func(*game.State)) {
	s := game.NewState()
	p := game.X
	for turn := 0; turn < 400 && !s.IsTerminal(); turn++ {
		visit(s)
		moves := s.LegalMoves(game.Roll(rng), p)
		if len(moves) > 0 {
			s.ApplyMove(moves[rng.Intn(len(moves))], p)
		}
		p = p.Opponent()
	}
	visit(s)
}

func TestScoreFiniteWhileInPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		playout(rng, func(s *game.State) {
			for _, p := range game.Players {
				v := Score(s, p)
				if s.IsTerminal() {
					require.True(t, math.IsInf(v, 0))
					continue
				}
				require.False(t, math.IsInf(v, 0) || math.IsNaN(v), "score %v", v)
			}
		})
	}
}

func TestEvaluatorCacheTransparent(t *testing.T) {
	cache := NewCache(1 << 10)
	plain := NewEvaluator(game.O)
	cached := NewEvaluator(game.O, WithCache(cache))
	require.Equal(t, game.O, cached.Player())

	rng := rand.New(rand.NewSource(3))
	for pass := 0; pass < 2; pass++ {
		rng.Seed(3)
		playout(rng, func(s *game.State) {
			require.Equal(t, plain.Evaluate(s), cached.Evaluate(s))
		})
	}

	st := cache.Stats()
	require.NotZero(t, st.Adds)
	require.NotZero(t, st.Hits)
	require.Greater(t, st.HitRate, 0.0)
}
