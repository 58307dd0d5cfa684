package heuristic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgagents/pkg/game"
)

var allBounds = map[string]Bounds{
	"vulnerability": VulnerabilityBounds,
	"hitting":       HittingBounds,
	"blocking":      BlockingBounds,
	"bear-in":       BearInBounds,
	"bear-off":      BearOffBounds,
}

func TestNormalizeBounds(t *testing.T) {
	for name, b := range allBounds {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, 0.0, b.Normalize(b.Min))
			require.Equal(t, 1.0, b.Normalize(b.Max))

			prev := math.Inf(-1)
			for x := b.Min - 5; x <= b.Max+5; x += 0.5 {
				v := b.Normalize(x)
				require.GreaterOrEqual(t, v, prev, "not monotonic at %v", x)
				prev = v
			}
		})
	}
	require.Equal(t, 0.5, Normalize(5, 0, 10))
}

func TestStartingFeatures(t *testing.T) {
	s := game.NewState()
	want := Features{
		Vulnerability: 1,
		Hitting:       0,
		Blocking:      6.0 / 27,
		BearIn:        4.0 / 15,
		BearOff:       0,
		Terminal:      0,
	}
	for _, p := range game.Players {
		got := Extract(s, p)
		require.InDelta(t, want.Vulnerability, got.Vulnerability, 1e-12, p.String())
		require.InDelta(t, want.Blocking, got.Blocking, 1e-12, p.String())
		require.InDelta(t, want.BearIn, got.BearIn, 1e-12, p.String())
		require.Zero(t, got.Hitting)
		require.Zero(t, got.BearOff)
		require.Zero(t, got.Terminal)
	}
}

func TestVulnerabilityWeightsHomeBlots(t *testing.T) {
	home := game.NewState()
	home.Grid[5] = game.Stack(game.X, 4)
	home.Grid[2] = game.Stack(game.X, 1)

	far := game.NewState()
	far.Grid[5] = game.Stack(game.X, 4)
	far.Grid[20] = game.Stack(game.X, 1)

	require.InDelta(t, 1-3.0/15, Vulnerability(home, game.X), 1e-12)
	require.InDelta(t, 1.0, Vulnerability(far, game.X), 1e-12)
}

func TestHitting(t *testing.T) {
	s := game.NewState()
	s.Bar[game.O] = 2
	s.Bar[game.X] = 1
	require.InDelta(t, 1.5/15, Hitting(s, game.X), 1e-12)
	require.InDelta(t, 0, Hitting(s, game.O), 1e-12)
}

func TestBearInCountsOpponentInOwnHome(t *testing.T) {
	s := &game.State{}
	s.Grid[20] = game.Stack(game.O, 6)
	s.Grid[22] = game.Stack(game.X, 2)
	require.InDelta(t, 5.0/15, BearIn(s, game.O), 1e-12)
}

func TestBearOff(t *testing.T) {
	s := &game.State{}
	s.Off[game.X] = 9
	s.Off[game.O] = 3
	require.InDelta(t, 6.0/15, BearOff(s, game.X), 1e-12)
	require.InDelta(t, -6.0/15, BearOff(s, game.O), 1e-12)
}

func TestTerminal(t *testing.T) {
	s := &game.State{}
	s.Off[game.O] = game.Checkers
	s.Grid[4] = game.Stack(game.X, 15)

	require.True(t, math.IsInf(Terminal(s, game.O), 1))
	require.True(t, math.IsInf(Terminal(s, game.X), -1))
	require.Zero(t, Terminal(game.NewState(), game.X))
}
