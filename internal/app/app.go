package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"migviz/internal/config"
	apperrors "migviz/internal/errors"
	"migviz/internal/infrastructure"
	customMiddleware "migviz/internal/middleware"
	"migviz/internal/services"
	handlers "migviz/internal/transport/http"
	"migviz/pkg/contracts"
)

// Application is the local preview server for a built dashboard
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	HealthService *services.HealthService
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger

	// OpenBrowser opens the index page once the server answers
	OpenBrowser bool

	listener net.Listener
	serveErr chan error
}

// NewApplication wires the router and HTTP server. otel may be nil.
func NewApplication(cfg *config.Config, paths *config.Paths, otel *infrastructure.OTelProviders, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Application{
		Config:        cfg,
		Paths:         paths,
		OTelProviders: otel,
		Logger:        logger.With(slog.String("component", "server")),
		HealthService: services.NewHealthService(contracts.Version, contracts.BuildTime, paths, logger),
	}
	a.setupRouter()
	a.createServer()
	return a
}

// setupRouter configures the HTTP router with all routes.
// Ordering: RequestID → OTel → Logger → Recoverer → rate limit → headers.
func (a *Application) setupRouter() {
	errorHandler := apperrors.NewErrorHandler(a.Logger)
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))
	if rl := a.Config.Server.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, errorHandler, a.Logger).Handler)
	}
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)
	r.Use(customMiddleware.Compress(5))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	var exporter http.Handler
	if a.OTelProviders != nil {
		exporter = a.OTelProviders.PrometheusHTTP
	}
	r.Method(http.MethodGet, "/metrics", handlers.NewMetricsHandler(exporter))

	health := handlers.NewHealthHandler(a.HealthService, errorHandler, a.Logger)
	dashboard := handlers.NewDashboardHandler(a.Paths, errorHandler, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Get("/version", health.Version)
		r.Get("/stats", health.Stats)
		r.Get("/specs", dashboard.ListSpecs)
		r.Get("/specs/{chart}/{year}", dashboard.GetSpec)
	})

	r.Get("/*", dashboard.ServeFile)
	r.Head("/*", dashboard.ServeFile)

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly; later serve errors surface through Done.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln
	a.serveErr = make(chan error, 1)

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	status := a.HealthService.ReadinessCheck(ctx)
	a.Logger.InfoContext(ctx, "Preview server started",
		slog.String("address", a.URL()),
		slog.String("www_dir", a.Paths.WWWDir),
		slog.String("dashboard", status.Status))

	if a.OpenBrowser {
		go a.openWhenReady(ctx)
	}
	return nil
}

// Done reports a serve error, or closes after Stop.
func (a *Application) Done() <-chan error {
	return a.serveErr
}

// URL is the base address the server listens on
func (a *Application) URL() string {
	if a.listener != nil {
		return "http://" + a.listener.Addr().String()
	}
	return "http://" + a.Server.Addr
}

// Stop gracefully stops the server. Telemetry is flushed by the caller.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	a.Logger.InfoContext(ctx, "Preview server stopped")
	return nil
}

// Run serves until ctx is cancelled or the server fails
func (a *Application) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Received shutdown signal")
	case err := <-a.Done():
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return a.Stop(ctx)
}

// openWhenReady polls the liveness endpoint before opening the browser
func (a *Application) openWhenReady(ctx context.Context) {
	url := a.URL()
	client := &http.Client{Timeout: time.Second}

	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(200 * time.Millisecond):
		}

		resp, err := client.Get(url + "/api/health/live")
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			continue
		}

		if err := openBrowser(ctx, url); err != nil {
			a.Logger.WarnContext(ctx, "Failed to open browser",
				slog.String("url", url),
				slog.String("error", err.Error()))
		}
		return
	}
	a.Logger.WarnContext(ctx, "Server did not become ready for browser opening", slog.String("url", url))
}

func openBrowser(ctx context.Context, url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.CommandContext(ctx, name, args...).Start()
}

// browserCommand returns the platform command that opens url
func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}
