package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// place puts n checkers of p on a point of s.
func place(s *State, p Player, point, n int) {
	s.Grid[point] = Stack(p, n)
}

func TestNewState(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Validate())

	want := map[int]Point{
		0: Stack(O, 2), 11: Stack(O, 5), 16: Stack(O, 3), 18: Stack(O, 5),
		23: Stack(X, 2), 12: Stack(X, 5), 7: Stack(X, 3), 5: Stack(X, 5),
	}
	for i, pt := range s.Grid {
		require.Equal(t, want[i], pt, "point %d", i)
	}
	require.False(t, s.IsTerminal())
}

func TestPoint(t *testing.T) {
	tests := []struct {
		name  string
		pt    Point
		holdX int
		holdO int
	}{
		{"empty", 0, 0, 0},
		{"x stack", Stack(X, 3), 3, 0},
		{"o blot", Stack(O, 1), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.holdX, tt.pt.Holds(X))
			require.Equal(t, tt.holdO, tt.pt.Holds(O))
			require.Equal(t, tt.holdX+tt.holdO, tt.pt.Count())

			owner, ok := tt.pt.Owner()
			require.Equal(t, tt.pt != 0, ok)
			if ok {
				require.Equal(t, tt.pt.Count(), tt.pt.Holds(owner))
			}
		})
	}
}

func TestClone(t *testing.T) {
	s := NewState()
	c := s.Clone()
	require.Equal(t, *s, *c)

	c.Grid[0] = 0
	c.Bar[X] = 1
	require.NotEqual(t, *s, *c, "clone must not share storage")
}

func TestQuadrant(t *testing.T) {
	s := NewState()
	require.Len(t, s.Quadrant(3), QuadrantSize)
	require.Equal(t, Stack(O, 5), s.Quadrant(3)[0])
	require.Equal(t, Stack(X, 5), s.Quadrant(0)[5])
}

func TestPlayer(t *testing.T) {
	require.Equal(t, O, X.Opponent())
	require.Equal(t, X, O.Opponent())
	require.Equal(t, 0, X.HomeQuadrant())
	require.Equal(t, 3, O.HomeQuadrant())
	require.Equal(t, O, NewState().OpponentOf(X))
	require.Equal(t, 5, X.Pip(5))
	require.Equal(t, 18, O.Pip(5))

	p, err := ParsePlayer("O")
	require.NoError(t, err)
	require.Equal(t, O, p)
	_, err = ParsePlayer("z")
	require.Error(t, err)
}

func TestWinner(t *testing.T) {
	s := &State{}
	s.Off[O] = Checkers
	place(s, X, 3, 15)

	require.True(t, s.IsTerminal())
	w, ok := s.Winner()
	require.True(t, ok)
	require.Equal(t, O, w)

	_, ok = NewState().Winner()
	require.False(t, ok)
}

func TestValidate(t *testing.T) {
	s := NewState()
	s.Off[X] = 1
	require.ErrorIs(t, s.Validate(), ErrInvalidState)

	s = NewState()
	s.Bar[O] = -1
	require.ErrorIs(t, s.Validate(), ErrInvalidState)

	s = &State{Off: [2]int{Checkers, Checkers}}
	require.ErrorIs(t, s.Validate(), ErrInvalidState)
}
