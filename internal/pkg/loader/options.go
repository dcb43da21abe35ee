package loader

import (
	"io"
	"net/http"
	"os"
	"time"
)

// Option configures a [Loader].
type Option func(*options)

type options struct {
	client  *http.Client
	timeout time.Duration
	stdin   io.Reader
}

// WithHTTPClient sets the client used to fetch remote sources.
//
// Defaults to [http.DefaultClient].
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client == nil {
			return
		}

		o.client = client
	}
}

// WithTimeout bounds the time spent loading a source. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithStdin sets the reader used when the source is "-".
//
// Defaults to [os.Stdin].
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		if r == nil {
			return
		}

		o.stdin = r
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		client: http.DefaultClient,
		stdin:  os.Stdin,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
