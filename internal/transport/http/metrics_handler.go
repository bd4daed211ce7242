package http

import (
	"net/http"

	"github.com/go-chi/render"

	"migviz/internal/errors"
)

// MetricsHandler exposes the Prometheus registry fed by the OpenTelemetry
// meter provider.
type MetricsHandler struct {
	exporter http.Handler
}

// NewMetricsHandler wraps the Prometheus HTTP handler. exporter may be nil
// when the metric exporter is disabled.
func NewMetricsHandler(exporter http.Handler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		render.Render(w, r, errors.NewProblemDetails(
			http.StatusNotFound,
			errors.TypeNotFound,
			"Metrics Disabled",
			"Set telemetry.metric_exporter to prometheus to expose metrics",
			r.URL.Path,
		))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
