// Package http implements the handlers of the local preview server. It is a
// thin layer between the chi router and the services package: handlers parse
// the request, call a service or read a generated file, and format the
// response.
//
// # Endpoints
//
//	GET /                      index.html
//	GET /{file}                any generated page, spec, SVG or snapshot
//	GET /api/health            liveness summary
//	GET /api/health/ready      503 until a dashboard has been built
//	GET /api/health/live       runtime details
//	GET /api/version           build information
//	GET /api/stats             pages, specs and snapshots on disk
//	GET /api/specs             chart specs with their URLs
//	GET /api/specs/{chart}/{year}
//	GET /metrics               Prometheus exposition
//
// # Error Handling
//
// Every error is rendered as RFC 7807 Problem Details by errors.ErrorHandler:
//
//	{
//	    "type": "/errors/not-found",
//	    "title": "Resource Not Found",
//	    "status": 404,
//	    "detail": "No generated file matches this path",
//	    "instance": "/plots_missing.html",
//	    "request_id": "4b0c..."
//	}
package http
