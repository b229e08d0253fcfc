// Package throttle spaces out requests to respect the Data API quota
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle blocks until the next request may be sent
type Throttle interface {
	Wait(ctx context.Context) error
}

// Interval enforces a minimum delay between successive requests.
// The first Wait returns immediately.
type Interval struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewInterval returns a throttle allowing one request per interval.
// A non-positive interval disables throttling.
func NewInterval(interval time.Duration) *Interval {
	if interval <= 0 {
		return &Interval{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Interval{limiter: rate.NewLimiter(rate.Every(interval), 1), interval: interval}
}

// Wait blocks until the interval since the previous request has elapsed
// or ctx is done.
func (t *Interval) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// MinInterval returns the configured interval
func (t *Interval) MinInterval() time.Duration {
	return t.interval
}

// Noop never blocks. Meant for tests and fixture runs.
type Noop struct {
	Calls int
}

func (n *Noop) Wait(ctx context.Context) error {
	n.Calls++
	return ctx.Err()
}
