package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWorkerPoolLanes(t *testing.T) {
	pool := NewWorkerPool(2, 1)
	ctx := context.Background()

	require.NoError(t, pool.Acquire(ctx, Slow))
	require.False(t, pool.TryAcquire(Slow), "the slow lane has one slot")
	require.True(t, pool.TryAcquire(Fast), "lanes are independent")

	st := pool.Stats()
	require.EqualValues(t, 1, st.ActiveSlow)
	require.EqualValues(t, 1, st.ActiveFast)
	require.Equal(t, 2, st.MaxFast)
	require.Equal(t, 1, st.MaxSlow)

	pool.Release(Slow)
	pool.Release(Fast)
	st = pool.Stats()
	require.Zero(t, st.ActiveSlow)
	require.Zero(t, st.ActiveFast)
	require.EqualValues(t, 1, st.TotalSlow)
	require.EqualValues(t, 1, st.TotalFast)
}

func TestWorkerPoolDefaults(t *testing.T) {
	st := NewWorkerPool(0, 0).Stats()
	require.Positive(t, st.MaxFast)
	require.Equal(t, 1, st.MaxSlow)
}

func TestWorkerPoolCancel(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	require.True(t, pool.TryAcquire(Fast))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, pool.Acquire(ctx, Fast), context.DeadlineExceeded)
	require.Zero(t, pool.Stats().QueuedFast)
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const limit = 3
	pool := NewWorkerPool(limit, 1)

	var (
		mu      sync.Mutex
		running int
		peak    int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.Acquire(context.Background(), Fast); err != nil {
				t.Error(err)
				return
			}
			defer pool.Release(Fast)

			mu.Lock()
			running++
			peak = max(peak, running)
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, peak, limit)
	require.EqualValues(t, 20, pool.Stats().TotalFast)
}
