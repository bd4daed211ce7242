package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migviz/internal/config"
	"migviz/internal/errors"
	"migviz/internal/services"
	"migviz/internal/shared/testutil"
)

func builtPaths(t *testing.T) *config.Paths {
	t.Helper()
	cfg := config.Default()
	cfg.Inputs.BaseDir = t.TempDir()
	paths, err := config.NewPaths(cfg)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	write := func(path, content string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write(paths.GetWWWPath(config.IndexPage), "<html>index</html>")
	write(paths.GetWWWPath(config.CountryPage), "<html>country</html>")
	write(paths.GetWWWPath(config.RegionPage), "<html>region</html>")
	write(paths.GetSpecPath("flow", 1990), `{"hconcat":[]}`)
	write(paths.GetSpecPath("rate", 1990), `{"hconcat":[]}`)
	write(filepath.Join(paths.SpecsDir, "notes.json"), `{}`)
	return paths
}

func newRouter(t *testing.T, paths *config.Paths) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	eh := errors.NewErrorHandler(logger)
	dash := NewDashboardHandler(paths, eh, logger)
	health := NewHealthHandler(services.NewHealthService("test", "", paths, logger), eh, logger)

	r := chi.NewRouter()
	r.Get("/api/health/ready", health.ReadinessCheck)
	r.Get("/api/stats", health.Stats)
	r.Get("/api/version", health.Version)
	r.Get("/api/specs", dash.ListSpecs)
	r.Get("/api/specs/{chart}/{year}", dash.GetSpec)
	r.Get("/*", dash.ServeFile)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServeFile(t *testing.T) {
	h := newRouter(t, builtPaths(t))

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "root serves index", target: "/", wantStatus: http.StatusOK, wantBody: "<html>index</html>"},
		{name: "index by name", target: "/index.html", wantStatus: http.StatusOK, wantBody: "<html>index</html>"},
		{name: "country page", target: "/plots_country.html", wantStatus: http.StatusOK, wantBody: "<html>country</html>"},
		{name: "spec file", target: "/specs/flow_1990.json", wantStatus: http.StatusOK, wantBody: `{"hconcat":[]}`},
		{name: "missing page", target: "/plots_missing.html", wantStatus: http.StatusNotFound},
		{name: "directory", target: "/specs", wantStatus: http.StatusNotFound},
		{name: "traversal", target: "/../../etc/passwd", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
			} else {
				assert.Contains(t, rec.Header().Get("Content-Type"), "json")
			}
		})
	}
}

func TestListSpecs(t *testing.T) {
	rec := get(t, newRouter(t, builtPaths(t)), "/api/specs")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []SpecEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, SpecEntry{Chart: "flow", Year: 1990, URL: "/specs/flow_1990.json", Size: 14}, entries[0])
	assert.Equal(t, "rate", entries[1].Chart)
}

func TestGetSpec(t *testing.T) {
	h := newRouter(t, builtPaths(t))

	tests := []struct {
		target     string
		wantStatus int
	}{
		{"/api/specs/flow/1990", http.StatusOK},
		{"/api/specs/rate/1990", http.StatusOK},
		{"/api/specs/flow/1995", http.StatusNotFound},
		{"/api/specs/flow/2001", http.StatusUnprocessableEntity},
		{"/api/specs/flow/latest", http.StatusUnprocessableEntity},
		{"/api/specs/pie/1990", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"hconcat":[]}`, rec.Body.String())
			}
		})
	}
}

func TestReadinessHandler(t *testing.T) {
	rec := get(t, newRouter(t, builtPaths(t)), "/api/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	cfg := config.Default()
	cfg.Inputs.BaseDir = t.TempDir()
	empty, err := config.NewPaths(cfg)
	require.NoError(t, err)

	rec = get(t, newRouter(t, empty), "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), services.StatusNotReady)
}

func TestStatsHandler(t *testing.T) {
	rec := get(t, newRouter(t, builtPaths(t)), "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats services.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Len(t, stats.Pages, 3)
	assert.Equal(t, 3, stats.Specs)
}

func TestStatsHandlerMissingDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.Inputs.BaseDir = t.TempDir()
	paths, err := config.NewPaths(cfg)
	require.NoError(t, err)

	rec := get(t, newRouter(t, paths), "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# HELP http_requests_total\n"))
	})
	rec = httptest.NewRecorder()
	NewMetricsHandler(exporter).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestParseSpecName(t *testing.T) {
	tests := []struct {
		name  string
		chart string
		year  int
		ok    bool
	}{
		{"flow_1990.json", "flow", 1990, true},
		{"rate_2020.json", "rate", 2020, true},
		{"notes.json", "", 0, false},
		{"_1990.json", "", 0, false},
		{"flow_x.json", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, year, ok := parseSpecName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.chart, chart)
			assert.Equal(t, tt.year, year)
		})
	}
}
