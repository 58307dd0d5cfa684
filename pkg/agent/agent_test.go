package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/yourusername/bgagents/pkg/game"
	"github.com/yourusername/bgagents/pkg/heuristic"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		name string
	}{
		{KindExpectiminimax, "ExpectiMinMax"},
		{KindCapture, "Eater"},
		{KindBlock, "Close"},
		{KindRandom, "Random"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			a, err := New(tt.kind, game.X, Config{Seed: 1})
			require.NoError(t, err)
			require.Equal(t, tt.name, Name(a))
		})
	}

	_, err := New("gnubg", game.X, Config{})
	require.ErrorIs(t, err, ErrUnknownAgent)
}

func TestNewExpectiminimaxConfig(t *testing.T) {
	a, err := New(KindExpectiminimax, game.O, Config{Depth: 2, Cache: heuristic.NewCache(1024)})
	require.NoError(t, err)
	require.Equal(t, 2, a.(*Expectiminimax).Depth())

	a, err = New(KindExpectiminimax, game.O, Config{})
	require.NoError(t, err)
	require.Equal(t, DefaultDepth, a.(*Expectiminimax).Depth())
}

type anonymous struct{}

func (anonymous) SelectMove([]game.Move, *game.State) (game.Move, error) { return nil, nil }

func TestName(t *testing.T) {
	require.Equal(t, "agent.anonymous", Name(anonymous{}))
}

func TestAgentsPlayLegalMoves(t *testing.T) {
	agents := []Agent{
		NewExpectiminimax(game.X, heuristic.NewEvaluator(game.X)),
		NewCapture(game.X, rand.New(rand.NewSource(3))),
		NewBlock(game.X),
		NewRandom(game.X, rand.New(rand.NewSource(3))),
	}
	s := game.NewState()
	for _, o := range game.Outcomes() {
		legal := s.LegalMoves(o, game.X)
		for _, a := range agents {
			m, err := a.SelectMove(legal, s)
			require.NoError(t, err)
			require.Contains(t, legal, m, "%s rolled %v", Name(a), o)
		}
	}
}
