// Package snapshot captures PNG screenshots of the generated pages with a
// headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"

	"migviz/internal/config"
	"migviz/internal/errors"
	"migviz/internal/files"
	"migviz/internal/infrastructure"
)

// browserNames are tried on PATH in order when no browser path is configured.
var browserNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// renderedCheck is true once the page has no chart container or vega-embed
// has drawn into it.
const renderedCheck = `(function () {
  var chart = document.getElementById("chart");
  return chart === null || chart.querySelector("canvas, svg") !== null;
})()`

// Capturer takes one full-page screenshot per page.
type Capturer struct {
	cfg    config.SnapshotConfig
	paths  *config.Paths
	files  *files.Manager
	otel   *infrastructure.OTelProviders
	logger *slog.Logger
}

// NewCapturer creates a capturer. otel may be nil.
func NewCapturer(cfg config.SnapshotConfig, paths *config.Paths, otel *infrastructure.OTelProviders, logger *slog.Logger) *Capturer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{
		cfg:    cfg,
		paths:  paths,
		files:  files.NewManager(paths, logger),
		otel:   otel,
		logger: logger.With(slog.String("component", "snapshot")),
	}
}

// FindBrowser returns the configured browser or the first known Chrome
// binary on PATH.
func FindBrowser(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", errors.NewNotFoundError(fmt.Sprintf("browser %s", configured), err)
		}
		return configured, nil
	}
	for _, name := range browserNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.NewNotFoundError(
		"no Chrome or Chromium found on PATH; install one or set MIGVIZ_SNAPSHOT_BROWSER_PATH", nil)
}

// Capture screenshots each page, given as paths relative to the www
// directory, and returns the written PNG paths.
func (c *Capturer) Capture(ctx context.Context, pages []string) (written []string, err error) {
	ctx, end := c.otel.StartStage(ctx, "snapshot", attribute.Int("pages", len(pages)))
	defer func() { end(err) }()

	browser, err := FindBrowser(c.cfg.BrowserPath)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browser),
		chromedp.Flag("headless", true),
		chromedp.WindowSize(c.cfg.Width, c.cfg.Height),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	for _, page := range pages {
		start := time.Now()
		png, err := c.capturePage(browserCtx, page)
		if err != nil {
			return written, fmt.Errorf("snapshot %s: %w", page, err)
		}

		out := c.paths.GetSnapshotPath(SnapshotName(page))
		if err := c.files.WriteFile(out, png); err != nil {
			return written, fmt.Errorf("snapshot %s: %w", page, err)
		}
		c.otel.Pipeline().RecordFile(ctx, "snapshot")
		written = append(written, out)

		c.logger.InfoContext(ctx, "Page captured",
			slog.String("page", page),
			slog.String("output", out),
			slog.Duration("duration", time.Since(start)))
	}
	return written, nil
}

func (c *Capturer) capturePage(browserCtx context.Context, page string) ([]byte, error) {
	pageCtx, cancel := context.WithTimeout(browserCtx, c.cfg.Timeout)
	defer cancel()

	var png []byte
	var rendered bool
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(PageURL(c.paths.GetWWWPath(page))),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Poll(renderedCheck, &rendered, chromedp.WithPollingInterval(200*time.Millisecond)),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, err
	}
	return png, nil
}

// PageURL turns a file path into a file:// URL.
func PageURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String()
}

// SnapshotName is the screenshot base name of a page: its file name without
// extension.
func SnapshotName(page string) string {
	base := filepath.Base(page)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
