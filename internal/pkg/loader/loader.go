// Package loader fetches the tabular data source and splits it into raw records.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Quartz/county-wages/internal/pkg/model"
)

// Sentinel errors returned by the [Loader].
var (
	ErrFetch       = errors.New("fetching data source")
	ErrEmptySource = errors.New("empty data source")
)

// Loader reads CSV data from a local file, the standard input or an HTTP(S) URL.
type Loader struct {
	options

	l *slog.Logger
}

// New builds a [Loader].
func New(opts ...Option) *Loader {
	return &Loader{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "loader")),
	}
}

// Load fetches the source and parses it into raw records, in source order.
//
// The source is "-" for the standard input, a http:// or https:// URL, or a local file path.
func (d *Loader) Load(ctx context.Context, source string) ([]model.RawRecord, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	rdr, closer, err := d.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer closer()

	records, err := Parse(rdr)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", source, err)
	}

	d.l.Info("data source loaded", slog.String("source", source), slog.Int("records", len(records)))

	return records, nil
}

func (d *Loader) open(ctx context.Context, source string) (io.Reader, func(), error) {
	switch {
	case source == "-":
		return d.stdin, func() {}, nil
	case isRemote(source):
		return d.fetch(ctx, source)
	default:
		file, err := os.Open(source)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: input file %q: %w", ErrFetch, source, err)
		}

		return file, func() { _ = file.Close() }, nil
	}
}

func (d *Loader) fetch(ctx context.Context, url string) (io.Reader, func(), error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %w", ErrFetch, url, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %w", ErrFetch, url, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()

		return nil, nil, fmt.Errorf("%w: %q: unexpected status %s", ErrFetch, url, resp.Status)
	}

	return resp.Body, func() { _ = resp.Body.Close() }, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Parse reads CSV content with a header row into raw records.
//
// All the columns required by [model.Transform] must be present in the header.
func Parse(r io.Reader) ([]model.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, err
	}

	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	if err := checkColumns(header); err != nil {
		return nil, err
	}

	var records []model.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := make(model.RawRecord, len(header))
		for i, col := range header {
			rec[col] = row[i]
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptySource
	}

	return records, nil
}

func checkColumns(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string
	for _, f := range model.SourceFields() {
		if _, ok := present[f.String()]; !ok {
			missing = append(missing, f.String())
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", model.ErrMissingColumn, strings.Join(missing, ", "))
	}

	return nil
}
