// Package app wires the local preview server: the chi router with its
// middleware chain, the health and dashboard handlers, the Prometheus
// endpoint and the http.Server lifecycle.
//
// # Usage
//
//	a := app.NewApplication(cfg, paths, otel, logger)
//	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := a.Run(ctx); err != nil {
//	    return err
//	}
package app
