package image //nolint:revive // it's okay for an internal package to use this name

import "time"

// Option to tune image rendering.
type Option func(*options)

type options struct {
	Height        int64
	Width         int64
	SleepDuration time.Duration
	WaitSelector  string
}

const (
	defaultHeight int64 = 1400
	defaultWidth  int64 = 940
	defaultWait         = 500 * time.Millisecond
)

func optionsWithDefaults(opts []Option) options {
	o := options{
		Height:        defaultHeight,
		Width:         defaultWidth,
		SleepDuration: defaultWait,
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// WithHeight sets the height of the screenshot.
//
// Defaults to 1400.
func WithHeight(height int64) Option {
	return func(o *options) {
		if height <= 0 {
			return
		}

		o.Height = height
	}
}

// WithWidth sets the width of the screenshot.
//
// Defaults to 940, the width of the published graphic.
func WithWidth(width int64) Option {
	return func(o *options) {
		if width <= 0 {
			return
		}

		o.Width = width
	}
}

// WithSleep sets the time to wait for the chrome headless engine to render the HTML page.
//
// Defaults to 500ms.
func WithSleep(sleep time.Duration) Option {
	return func(o *options) {
		if sleep == 0 {
			return
		}

		o.SleepDuration = sleep
	}
}

// WithWaitSelector waits for an element matching this CSS selector to be visible before taking the screenshot.
//
// Defaults to no wait.
func WithWaitSelector(selector string) Option {
	return func(o *options) {
		o.WaitSelector = selector
	}
}
