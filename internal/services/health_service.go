package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"time"

	"migviz/internal/config"
	"migviz/internal/files"
)

// Readiness states reported by ReadinessCheck
const (
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// HealthService reports the state of the preview server and of the
// generated dashboard it serves.
type HealthService struct {
	version   string
	buildTime string
	paths     *config.Paths
	discovery *files.Discovery
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Checks    map[string]ServiceHealth `json:"checks,omitempty"`
}

// ServiceHealth represents one readiness check
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// DashboardStats summarises the generated output
type DashboardStats struct {
	Pages          []string `json:"pages"`
	Specs          int      `json:"specs"`
	Snapshots      int      `json:"snapshots"`
	TotalSizeBytes int64    `json:"total_size_bytes"`
	UptimeSeconds  float64  `json:"uptime_seconds"`
}

// NewHealthService creates a health service over the www directory in paths
func NewHealthService(version, buildTime string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		discovery: files.NewDiscovery(paths.WWWDir),
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready only when every page and at least one spec
// has been generated.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Checks: map[string]ServiceHealth{
			"pages": hs.checkPages(),
			"specs": hs.checkSpecs(),
		},
	}
	for name, check := range status.Checks {
		if check.Status != StatusReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "Dashboard not ready",
				slog.String("check", name),
				slog.String("message", check.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"name":       config.AppName,
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"start_time": hs.startTime.UTC().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

// Stats lists what the dashboard directory currently holds
func (hs *HealthService) Stats(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{UptimeSeconds: time.Since(hs.startTime).Seconds()}

	pages, err := hs.discovery.FindPages(hs.paths.WWWDir)
	if err != nil {
		return stats, err
	}
	for _, p := range pages {
		stats.Pages = append(stats.Pages, p.Name)
	}
	stats.TotalSizeBytes += files.TotalSize(pages)

	specs, err := hs.discovery.FindSpecs(hs.paths.SpecsDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return stats, err
	}
	stats.Specs = len(specs)
	stats.TotalSizeBytes += files.TotalSize(specs)

	// snapshots are optional
	if shots, err := hs.discovery.FindByExtension(hs.paths.SnapshotsDir, ".png"); err == nil {
		stats.Snapshots = len(shots)
		stats.TotalSizeBytes += files.TotalSize(shots)
	}
	return stats, nil
}

func (hs *HealthService) checkPages() ServiceHealth {
	for _, page := range []string{config.IndexPage, config.CountryPage, config.RegionPage} {
		if !config.FileExists(hs.paths.GetWWWPath(page)) {
			return ServiceHealth{
				Status:  StatusNotReady,
				Message: fmt.Sprintf("%s has not been built; run migviz build", page),
			}
		}
	}
	return ServiceHealth{Status: StatusReady}
}

func (hs *HealthService) checkSpecs() ServiceHealth {
	specs, err := hs.discovery.FindSpecs(hs.paths.SpecsDir)
	if err != nil || len(specs) == 0 {
		return ServiceHealth{Status: StatusNotReady, Message: "no chart specs found"}
	}
	return ServiceHealth{Status: StatusReady, Message: fmt.Sprintf("%d specs", len(specs))}
}
