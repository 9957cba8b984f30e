package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate is the single admission point for all rendering jobs sharing the
// one browser process. It combines a capacity-1 in-flight slot with a
// jobs-per-rolling-window limiter, so batch ingestion and ad-hoc render
// requests are mutually rate-limited through the same choke point.
type Gate struct {
	slot    chan struct{}
	limiter *rate.Limiter
}

// NewGate creates a gate admitting at most one job in flight and at most
// jobs per window. jobs <= 0 or window <= 0 disables the window limit.
func NewGate(jobs int, window time.Duration) *Gate {
	g := &Gate{slot: make(chan struct{}, 1)}
	if jobs > 0 && window > 0 {
		// Burst of jobs lets a full window's quota run back to back;
		// the refill rate still bounds any rolling window to jobs.
		g.limiter = rate.NewLimiter(rate.Every(window/time.Duration(jobs)), jobs)
	} else {
		g.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return g
}

// Acquire blocks until the job is admitted or ctx is done. On success
// the caller owns the slot and must call Release exactly once.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		g.Release()
		return err
	}
	return nil
}

// Release frees the in-flight slot. Safe to call on an already-free
// gate; it never blocks and never panics, so it can sit in a defer on
// every exit path.
func (g *Gate) Release() {
	select {
	case <-g.slot:
	default:
	}
}
