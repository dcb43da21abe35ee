// Package bridge reports the content height of the chart to the embedding context.
//
// An embedding page uses these reports to size the iframe hosting the chart.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
)

// EventHeight is the event name of height messages.
const EventHeight = "height"

// Message is the payload sent to the embedding context.
type Message struct {
	Event  string `json:"event"`
	Height int    `json:"height"`
}

// NewHeightMessage builds a height [Message], rounding the height up to a whole pixel.
func NewHeightMessage(height float64) Message {
	return Message{Event: EventHeight, Height: int(math.Ceil(height))}
}

// Reporter sends content height reports.
type Reporter interface {
	ReportHeight(ctx context.Context, height float64) error
}

// Logger reports heights to a structured logger.
type Logger struct {
	l *slog.Logger
}

// NewLogger builds a [Logger] reporter. A nil logger uses the default logger.
func NewLogger(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}

	return &Logger{l: l.With(slog.String("module", "bridge"))}
}

// ReportHeight logs the height.
func (r *Logger) ReportHeight(ctx context.Context, height float64) error {
	r.l.DebugContext(ctx, "content height", slog.Int("height", NewHeightMessage(height).Height))

	return nil
}

// Writer reports heights as JSON lines, one [Message] per report.
type Writer struct {
	mx  sync.Mutex
	enc *json.Encoder
}

// NewWriter builds a [Writer] reporter.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// ReportHeight writes a height message.
func (r *Writer) ReportHeight(_ context.Context, height float64) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	if err := r.enc.Encode(NewHeightMessage(height)); err != nil {
		return fmt.Errorf("reporting height: %w", err)
	}

	return nil
}

// Recorder keeps the reported heights in memory. The last one is the current content height.
type Recorder struct {
	mx      sync.Mutex
	heights []int
}

// ReportHeight records the height.
func (r *Recorder) ReportHeight(_ context.Context, height float64) error {
	r.mx.Lock()
	defer r.mx.Unlock()

	r.heights = append(r.heights, NewHeightMessage(height).Height)

	return nil
}

// Heights returns a copy of all recorded heights.
func (r *Recorder) Heights() []int {
	r.mx.Lock()
	defer r.mx.Unlock()

	return append([]int(nil), r.heights...)
}

// Last returns the last recorded height.
func (r *Recorder) Last() (int, bool) {
	r.mx.Lock()
	defer r.mx.Unlock()

	if len(r.heights) == 0 {
		return 0, false
	}

	return r.heights[len(r.heights)-1], true
}

// Multi fans out reports to several reporters. All of them are called, errors are joined.
type Multi []Reporter

// ReportHeight reports to all reporters.
func (m Multi) ReportHeight(ctx context.Context, height float64) error {
	var errs []error
	for _, r := range m {
		if err := r.ReportHeight(ctx, height); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
