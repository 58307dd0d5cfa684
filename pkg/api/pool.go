package api

import (
	"context"
	"runtime"
	"sync/atomic"
)

// Lane selects one of the pool's two slot sets.
type Lane int

const (
	// Fast serves evaluate and move requests.
	Fast Lane = iota
	// Slow serves simulated matches.
	Slow
)

func (l Lane) String() string {
	if l == Slow {
		return "slow"
	}
	return "fast"
}

// WorkerPool bounds how many requests of each lane run at once.
type WorkerPool struct {
	lanes [2]lane
}

type lane struct {
	sem    chan struct{}
	queued atomic.Int64
	active atomic.Int64
	total  atomic.Int64
}

// NewWorkerPool returns a pool with fast and slow slots. A fast limit of
// 0 means one slot per CPU; the slow limit defaults to 1.
func NewWorkerPool(fast, slow int) *WorkerPool {
	if fast <= 0 {
		fast = runtime.GOMAXPROCS(0)
	}
	if slow <= 0 {
		slow = 1
	}
	p := &WorkerPool{}
	p.lanes[Fast].sem = make(chan struct{}, fast)
	p.lanes[Slow].sem = make(chan struct{}, slow)
	return p
}

// Acquire waits for a slot in l or for ctx to end.
func (p *WorkerPool) Acquire(ctx context.Context, l Lane) error {
	ln := &p.lanes[l]
	ln.queued.Add(1)
	defer ln.queued.Add(-1)

	select {
	case ln.sem <- struct{}{}:
		ln.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot in l if one is free.
func (p *WorkerPool) TryAcquire(l Lane) bool {
	ln := &p.lanes[l]
	select {
	case ln.sem <- struct{}{}:
		ln.active.Add(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (p *WorkerPool) Release(l Lane) {
	ln := &p.lanes[l]
	ln.active.Add(-1)
	ln.total.Add(1)
	<-ln.sem
}

// PoolStats is a snapshot of the pool's counters.
type PoolStats struct {
	ActiveFast int64 `json:"active_fast"`
	ActiveSlow int64 `json:"active_slow"`
	QueuedFast int64 `json:"queued_fast"`
	QueuedSlow int64 `json:"queued_slow"`
	TotalFast  int64 `json:"total_fast"`
	TotalSlow  int64 `json:"total_slow"`
	MaxFast    int   `json:"max_fast"`
	MaxSlow    int   `json:"max_slow"`
}

func (p *WorkerPool) Stats() PoolStats {
	fast, slow := &p.lanes[Fast], &p.lanes[Slow]
	return PoolStats{
		ActiveFast: fast.active.Load(),
		ActiveSlow: slow.active.Load(),
		QueuedFast: fast.queued.Load(),
		QueuedSlow: slow.queued.Load(),
		TotalFast:  fast.total.Load(),
		TotalSlow:  slow.total.Load(),
		MaxFast:    cap(fast.sem),
		MaxSlow:    cap(slow.sem),
	}
}
