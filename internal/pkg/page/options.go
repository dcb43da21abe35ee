package page

import "time"

// Option configures a [Page].
type Option func(*options)

type options struct {
	interactive bool
	endpoint    string
	throttle    time.Duration
}

// WithInteractive wires the controls to the graphic endpoint of the server, so that changes redraw the chart.
//
// Without it, the page is a static snapshot.
func WithInteractive(endpoint string) Option {
	return func(o *options) {
		o.interactive = endpoint != ""
		o.endpoint = endpoint
	}
}

// WithThrottle sets the minimum interval between two redraws on window resize.
func WithThrottle(interval time.Duration) Option {
	return func(o *options) {
		if interval < 0 {
			return
		}

		o.throttle = interval
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		throttle: 250 * time.Millisecond, //nolint:mnd
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
