package heuristic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/bgagents/pkg/game"
)

func TestCacheLookupAdd(t *testing.T) {
	c := NewCache(16)
	s := game.NewState()
	key := s.Key(game.X)

	_, ok := c.Lookup(key, game.X)
	require.False(t, ok)

	c.Add(key, game.X, 0.25)
	v, ok := c.Lookup(key, game.X)
	require.True(t, ok)
	require.Equal(t, 0.25, v)

	_, ok = c.Lookup(key, game.O)
	require.False(t, ok, "perspective is part of the key")

	st := c.Stats()
	require.Equal(t, uint64(3), st.Lookups)
	require.Equal(t, uint64(1), st.Hits)
	require.Equal(t, uint64(1), st.Adds)

	c.Flush()
	_, ok = c.Lookup(key, game.X)
	require.False(t, ok)
	require.Equal(t, uint64(1), c.Stats().Lookups)
}

func TestCacheKeepsTwoEntriesPerBucket(t *testing.T) {
	c := NewCache(2) // a single bucket
	a := game.NewState()
	b := game.NewState()
	b.ApplyMove(game.Move{{From: 16, To: 19}, {From: 18, To: 19}}, game.O)

	c.Add(a.Key(game.X), game.X, 1)
	c.Add(b.Key(game.X), game.X, 2)

	v, ok := c.Lookup(a.Key(game.X), game.X)
	require.True(t, ok)
	require.Equal(t, 1.0, v)
	v, ok = c.Lookup(b.Key(game.X), game.X)
	require.True(t, ok)
	require.Equal(t, 2.0, v)
}
