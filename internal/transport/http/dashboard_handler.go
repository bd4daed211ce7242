package http

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"migviz/internal/config"
	"migviz/internal/errors"
	"migviz/internal/files"
	"migviz/pkg/contracts/domain"
)

// DashboardHandler serves the generated www directory and lists its specs
type DashboardHandler struct {
	paths     *config.Paths
	files     *files.Manager
	discovery *files.Discovery
	errors    *errors.ErrorHandler
	logger    *slog.Logger
}

// SpecEntry describes one chart spec file
type SpecEntry struct {
	Chart string `json:"chart"`
	Year  int    `json:"year"`
	URL   string `json:"url"`
	Size  int64  `json:"size"`
}

// NewDashboardHandler creates a handler over paths.WWWDir
func NewDashboardHandler(paths *config.Paths, errHandler *errors.ErrorHandler, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		paths:     paths,
		files:     files.NewManager(paths, logger),
		discovery: files.NewDiscovery(paths.WWWDir),
		errors:    errHandler,
		logger:    logger.With(slog.String("handler", "dashboard")),
	}
}

// ServeFile handles GET for any generated file. "/" serves index.html and
// directories are never listed.
func (h *DashboardHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		name = "/" + config.IndexPage
	}
	full := filepath.Join(h.paths.WWWDir, filepath.FromSlash(name))

	f, err := os.Open(full)
	if err != nil {
		h.errors.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.errors.NotFound(w, r)
		return
	}

	// pages are regenerated in place by migviz build
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// ListSpecs handles GET /api/specs
func (h *DashboardHandler) ListSpecs(w http.ResponseWriter, r *http.Request) {
	found, err := h.discovery.FindSpecs(h.paths.SpecsDir)
	if err != nil {
		h.errors.HandleError(w, r, errors.NewNotFoundError("no chart specs have been built", err))
		return
	}

	entries := make([]SpecEntry, 0, len(found))
	for _, f := range found {
		chart, year, ok := parseSpecName(f.Name)
		if !ok {
			continue
		}
		rel, err := h.files.GetRelativePath(f.Path)
		if err != nil {
			continue
		}
		entries = append(entries, SpecEntry{Chart: chart, Year: year, URL: "/" + rel, Size: f.Size})
	}
	render.JSON(w, r, entries)
}

// GetSpec handles GET /api/specs/{chart}/{year}
func (h *DashboardHandler) GetSpec(w http.ResponseWriter, r *http.Request) {
	chart := chi.URLParam(r, "chart")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || !domain.IsStockYear(year) {
		h.errors.HandleError(w, r, errors.NewValidationError("year must be one of the stock years", errors.ErrUnknownYear).
			WithContext("year", chi.URLParam(r, "year")))
		return
	}
	if chart != "flow" && chart != "rate" {
		h.errors.NotFound(w, r)
		return
	}

	data, err := h.files.ReadFile(h.paths.GetSpecPath(chart, year))
	if err != nil {
		h.errors.HandleError(w, r, errors.NewNotFoundError(chart+" spec for "+strconv.Itoa(year), err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// parseSpecName splits "flow_1990.json" into its chart and year
func parseSpecName(name string) (string, int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndexByte(base, '_')
	if idx <= 0 {
		return "", 0, false
	}
	year, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return base[:idx], year, true
}
