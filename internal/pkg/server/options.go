package server

import (
	"time"

	"github.com/Quartz/county-wages/internal/pkg/bridge"
)

// Option configures a [Server].
type Option func(*options)

type options struct {
	addr            string
	shutdownTimeout time.Duration
	reporter        bridge.Reporter
}

// WithAddr sets the address to listen on. Defaults to "localhost:8080".
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr == "" {
			return
		}

		o.addr = addr
	}
}

// WithShutdownTimeout sets how long in-flight requests may run once the server is stopped.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout <= 0 {
			return
		}

		o.shutdownTimeout = timeout
	}
}

// WithReporter receives the content height of every drawn graphic, in addition to the response header.
func WithReporter(r bridge.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		addr:            "localhost:8080",
		shutdownTimeout: 5 * time.Second, //nolint:mnd
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
