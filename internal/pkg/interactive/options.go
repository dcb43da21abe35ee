package interactive

import (
	"time"

	"github.com/Quartz/county-wages/internal/pkg/bridge"
	"github.com/Quartz/county-wages/internal/pkg/model"
)

// DefaultThrottle is the minimum interval between two redraws triggered by resizes.
const DefaultThrottle = 250 * time.Millisecond

// Option configures a [Session].
type Option func(*options)

type options struct {
	sort             model.Field
	base             model.LineBase
	throttleInterval time.Duration
	reporter         bridge.Reporter
	now              func() time.Time
}

// WithSort sets the initial sort order. Defaults to [model.FieldEmployment1990].
func WithSort(f model.Field) Option {
	return func(o *options) {
		if !f.IsValid() {
			return
		}

		o.sort = f
	}
}

// WithBase sets the initial baseline mode. Defaults to [model.LineBaseStart].
func WithBase(b model.LineBase) Option {
	return func(o *options) {
		if !b.IsValid() {
			return
		}

		o.base = b
	}
}

// WithThrottle sets the minimum interval between two resize redraws.
//
// Defaults to [DefaultThrottle]. Zero disables throttling.
func WithThrottle(interval time.Duration) Option {
	return func(o *options) {
		if interval < 0 {
			return
		}

		o.throttleInterval = interval
	}
}

// WithReporter sets the receiver of content height reports, sent after each render.
func WithReporter(r bridge.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithClock injects the time source used for throttling.
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
		sort:             model.FieldEmployment1990,
		base:             model.LineBaseStart,
		throttleInterval: DefaultThrottle,
		now:              time.Now,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
