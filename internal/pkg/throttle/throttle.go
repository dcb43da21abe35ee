// Package throttle rate-limits a repeated trigger to at most once per interval.
//
// Calls arriving too early are dropped, not queued.
package throttle

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a [Throttle].
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock injects the time source. Defaults to [time.Now].
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now == nil {
			return
		}

		o.now = now
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		now: time.Now,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// Throttle lets the first call of a burst through, then drops calls until the interval has elapsed.
//
// A zero interval disables throttling.
type Throttle struct {
	options

	limiter *rate.Limiter
	dropped atomic.Int64
}

// New [Throttle] with the given interval.
func New(interval time.Duration, opts ...Option) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &Throttle{
		options: optionsWithDefaults(opts),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Allow reports whether a call may proceed now.
func (t *Throttle) Allow() bool {
	if t.limiter.AllowN(t.now(), 1) {
		return true
	}

	t.dropped.Add(1)

	return false
}

// Dropped returns how many calls were dropped so far.
func (t *Throttle) Dropped() int64 {
	return t.dropped.Load()
}

// Wrap returns a throttled version of fn. The returned func reports whether fn was called.
func (t *Throttle) Wrap(fn func()) func() bool {
	return func() bool {
		if !t.Allow() {
			return false
		}

		fn()

		return true
	}
}
