package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestOutcomeWeights(t *testing.T) {
	require.Len(t, NonDoubleOutcomes(), 15)
	require.Len(t, DoubleOutcomes(), 6)
	require.Len(t, Outcomes(), 21)

	total := 0
	prob := 0.0
	for _, o := range Outcomes() {
		total += o.Weight()
		prob += o.Probability()
	}
	require.Equal(t, TotalWeight, total)
	require.InDelta(t, 1.0, prob, 1e-12)

	for _, o := range NonDoubleOutcomes() {
		require.False(t, o.IsDouble(), o.String())
		require.Len(t, o.Dice(), 2)
	}
	for _, o := range DoubleOutcomes() {
		require.True(t, o.IsDouble(), o.String())
		require.Len(t, o.Dice(), 4)
	}
}

func TestNewOutcome(t *testing.T) {
	o, err := NewOutcome(5, 2)
	require.NoError(t, err)
	require.Equal(t, Outcome{Low: 2, High: 5}, o)
	require.Equal(t, "5-2", o.String())

	_, err = NewOutcome(0, 3)
	require.Error(t, err)
	_, err = NewOutcome(3, 7)
	require.Error(t, err)
}

func TestRoll(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := make(map[Outcome]bool)
	for i := 0; i < 2000; i++ {
		o := Roll(rng)
		require.True(t, o.Low >= 1 && o.Low <= o.High && o.High <= 6, o.String())
		seen[o] = true
	}
	require.Len(t, seen, 21)
}
