package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Quartz/county-wages/internal/pkg/bridge"
	"github.com/Quartz/county-wages/internal/pkg/config"
	"github.com/Quartz/county-wages/internal/pkg/model"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestServeGraphic(t *testing.T) {
	var rec bridge.Recorder
	srv := httptest.NewServer(newServer(t, fixture(t), WithReporter(&rec)).Handler())
	t.Cleanup(srv.Close)

	t.Run("defaults to the configured state", func(t *testing.T) {
		resp, body := get(t, srv.URL+PathGraphic)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, "135", resp.Header.Get(HeaderContentHeight))
		assert.Contains(t, body, `width="940" height="135"`)
		assert.Less(t, strings.Index(body, ">Maine<"), strings.Index(body, ">Ohio<"), "sorted by 1990 employment")
	})

	t.Run("applies the query", func(t *testing.T) {
		resp, body := get(t, srv.URL+PathGraphic+"?sort=area_title&base=change&width=400")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `width="400" height="135"`)
		assert.Contains(t, body, `data-base="change"`)
		assert.Less(t, strings.Index(body, ">Idaho<"), strings.Index(body, ">Maine<"))
	})

	t.Run("mobile width", func(t *testing.T) {
		_, body := get(t, srv.URL+PathGraphic+"?width=320")

		assert.Contains(t, body, "is-mobile")
	})

	t.Run("reports heights", func(t *testing.T) {
		last, ok := rec.Last()
		require.True(t, ok)
		assert.Equal(t, 135, last)
	})
}

func TestServeGraphicBadQuery(t *testing.T) {
	srv := httptest.NewServer(newServer(t, fixture(t)).Handler())
	t.Cleanup(srv.Close)

	for _, query := range []string{
		"?sort=population",
		"?base=relative",
		"?width=wide",
		"?width=-3",
		"?width=1000000",
	} {
		t.Run(query, func(t *testing.T) {
			resp, body := get(t, srv.URL+PathGraphic+query)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, `class="graphic-error"`)
		})
	}
}

func TestServeGraphicWidthBound(t *testing.T) {
	srv := httptest.NewServer(newServer(t, fixture(t)).Handler())
	t.Cleanup(srv.Close)

	for _, path := range []string{PathGraphic, PathGraphicPNG} {
		t.Run(path, func(t *testing.T) {
			resp, body := get(t, srv.URL+path+"?width=2000000000")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body, "should be between 1 and 4096")

			resp, _ = get(t, srv.URL+path+"?width=4096")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestServeGraphicNoData(t *testing.T) {
	srv := httptest.NewServer(newServer(t, nil).Handler())
	t.Cleanup(srv.Close)

	resp, body := get(t, srv.URL+PathGraphic)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "no data to render")
}

func TestServeGraphicPNG(t *testing.T) {
	srv := httptest.NewServer(newServer(t, fixture(t)).Handler())
	t.Cleanup(srv.Close)

	resp, body := get(t, srv.URL+PathGraphicPNG+"?width=600")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "135", resp.Header.Get(HeaderContentHeight))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))
}

func TestServePage(t *testing.T) {
	srv := httptest.NewServer(newServer(t, fixture(t)).Handler())
	t.Cleanup(srv.Close)

	resp, body := get(t, srv.URL+"/?sort=wages_2015")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="interactive-content"`)
	assert.Contains(t, body, `<option value="wages_2015" selected>`)
	assert.Contains(t, body, `<svg`)

	t.Run("unknown paths are not found", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/nowhere")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServeECharts(t *testing.T) {
	srv := httptest.NewServer(newServer(t, fixture(t)).Handler())
	t.Cleanup(srv.Close)

	resp, body := get(t, srv.URL+PathECharts+"?base=change")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "echarts")
	assert.Contains(t, body, "Idaho")
}

func TestServeData(t *testing.T) {
	srv := httptest.NewServer(newServer(t, fixture(t)).Handler())
	t.Cleanup(srv.Close)

	resp, body := get(t, srv.URL+PathData+"?sort=wages_1990")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	require.Len(t, records, 3)

	assert.Equal(t, "Maine", records[0]["area_title"])
	assert.Equal(t, "Idaho", records[2]["area_title"])
}

func TestServeMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(newServer(t, fixture(t)).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+PathData, "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestListenAndServeStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newServer(t, fixture(t), WithAddr("127.0.0.1:0"))

	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx)
	}()

	cancel()
	require.NoError(t, <-done)
}

// helpers

func newServer(t *testing.T, records []model.Record, opts ...Option) *Server {
	t.Helper()

	cfg, err := config.LoadDefaults()
	require.NoError(t, err)

	return New(cfg, records, opts...)
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url) //nolint:gosec,noctx
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func fixture(t *testing.T) []model.Record {
	t.Helper()

	records, err := model.Transform([]model.RawRecord{
		{"area_title": "Ohio", "employment_1990": "100", "employment_2015": "120", "wages_1990": "500", "wages_2015": "600"},
		{"area_title": "Maine", "employment_1990": "50", "employment_2015": "180", "wages_1990": "400", "wages_2015": "800"},
		{"area_title": "Idaho", "employment_1990": "200", "employment_2015": "90", "wages_1990": "800", "wages_2015": "700"},
	})
	require.NoError(t, err)

	return records
}
