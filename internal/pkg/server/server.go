// Package server serves the interactive chart over HTTP.
//
// The page controls call back the server to redraw the graphic: every request builds its own
// interaction state from the query, so that concurrent viewers never share state.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Quartz/county-wages/internal/pkg/bridge"
	"github.com/Quartz/county-wages/internal/pkg/chart"
	"github.com/Quartz/county-wages/internal/pkg/config"
	"github.com/Quartz/county-wages/internal/pkg/graphic"
	"github.com/Quartz/county-wages/internal/pkg/interactive"
	"github.com/Quartz/county-wages/internal/pkg/layout"
	"github.com/Quartz/county-wages/internal/pkg/model"
	"github.com/Quartz/county-wages/internal/pkg/page"
	"github.com/Quartz/county-wages/internal/pkg/raster"
)

// HeaderContentHeight is the response header carrying the height of a drawn graphic, in pixels.
const HeaderContentHeight = "X-Content-Height"

// Endpoints served.
const (
	PathPage       = "/"
	PathGraphic    = "/graphic"
	PathGraphicPNG = "/graphic.png"
	PathECharts    = "/echarts"
	PathData       = "/data"
)

// errBadRequest marks errors caused by the query.
var errBadRequest = errors.New("bad request")

type drawer interface {
	interactive.Drawer
	ContentType() string
}

// Server serves the chart of a fixed set of records.
type Server struct {
	options

	cfg     *config.Config
	records []model.Record
	params  layout.Params
	l       *slog.Logger
}

// New builds a [Server] for the transformed records.
func New(cfg *config.Config, records []model.Record, opts ...Option) *Server {
	return &Server{
		options: optionsWithDefaults(opts),
		cfg:     cfg,
		records: records,
		params:  layout.NewParams(cfg.Render),
		l:       slog.Default().With(slog.String("module", "server")),
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET "+PathGraphic, s.handleGraphic(graphic.New()))
	mux.HandleFunc("GET "+PathGraphicPNG, s.handleGraphic(raster.New()))
	mux.HandleFunc("GET "+PathECharts, s.handleECharts)
	mux.HandleFunc("GET "+PathData, s.handleData)

	return mux
}

// ListenAndServe serves until the context is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.shutdownTimeout,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.l.Warn("shutdown", slog.String("error", err.Error()))
		}
	}()

	s.l.Info("serving chart", slog.String("addr", s.addr), slog.Int("records", len(s.records)))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving HTTP: %w", err)
	}

	<-done
	s.l.Info("server stopped")

	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	session, content, err := s.draw(r.Context(), q, graphic.New())
	if err != nil {
		s.fail(w, r, err)

		return
	}

	state := session.State()
	p := page.New(s.cfg, state.SortOrder, state.LineBase, content,
		page.WithInteractive(PathGraphic),
		page.WithThrottle(s.cfg.Resize.ThrottleDuration()),
	)

	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		s.fail(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleGraphic(d drawer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := s.parseQuery(r)
		if err != nil {
			s.fail(w, r, err)

			return
		}

		session, content, err := s.draw(r.Context(), q, d)
		if err != nil {
			s.fail(w, r, err)

			return
		}

		w.Header().Set("Content-Type", d.ContentType())
		w.Header().Set(HeaderContentHeight, strconv.Itoa(bridge.NewHeightMessage(session.Scene().Height).Height))
		_, _ = w.Write(content)
	}
}

func (s *Server) handleECharts(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	sorted, err := model.SortBy(s.records, q.sort)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	var buf bytes.Buffer
	if err := chart.New(s.cfg, sorted, q.base).BuildPage().Render(&buf); err != nil {
		s.fail(w, r, fmt.Errorf("rendering echarts page: %w", err))

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	sorted, err := model.SortBy(s.records, q.sort)
	if err != nil {
		s.fail(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sorted); err != nil {
		s.l.WarnContext(r.Context(), "writing data", slog.String("error", err.Error()))
	}
}

type query struct {
	sort  model.Field
	base  model.LineBase
	width int
}

// parseQuery reads the interaction state from the query, falling back to the configured defaults.
func (s *Server) parseQuery(r *http.Request) (query, error) {
	values := r.URL.Query()
	q := query{
		sort:  s.cfg.Controls.Sort,
		base:  s.cfg.Controls.Base,
		width: s.cfg.Render.Width,
	}

	if v := values.Get("sort"); v != "" {
		f, err := model.ParseField(v)
		if err != nil {
			return q, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		q.sort = f
	}

	if v := values.Get("base"); v != "" {
		b, err := model.ParseLineBase(v)
		if err != nil {
			return q, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		q.base = b
	}

	if v := values.Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width <= 0 || width > s.cfg.Render.MaxWidth {
			return q, fmt.Errorf("%w: invalid width %q (should be between 1 and %d)", errBadRequest, v, s.cfg.Render.MaxWidth)
		}
		q.width = width
	}

	return q, nil
}

// draw renders the graphic for the query in a fresh session.
func (s *Server) draw(ctx context.Context, q query, d interactive.Drawer) (*interactive.Session, []byte, error) {
	container := interactive.NewBuffer(q.width)
	opts := []interactive.Option{
		interactive.WithSort(q.sort),
		interactive.WithBase(q.base),
	}
	if s.reporter != nil {
		opts = append(opts, interactive.WithReporter(s.reporter))
	}

	session := interactive.NewSession(s.records, s.params, d, container, opts...)
	if err := session.Start(ctx); err != nil {
		return nil, nil, err
	}

	return session, container.Bytes(), nil
}

// fail writes a visible error fragment with a status matching the error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, model.ErrUnknownField), errors.Is(err, model.ErrUnknownBase):
		status = http.StatusBadRequest
	case errors.Is(err, layout.ErrNoData):
		status = http.StatusUnprocessableEntity
	}

	s.l.WarnContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `<div class="graphic-error" role="alert">%s</div>`, html.EscapeString(err.Error()))
}
