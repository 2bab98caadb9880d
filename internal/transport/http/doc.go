// Package http implements the histogen HTTP handlers.
//
// Handlers stay thin: they decode the request, call the service and encode
// the result. Failures go through errors.ErrorHandler, which renders RFC
// 7807 problem documents; a malformed SAF body becomes a 422 carrying the
// error kind, line and histogram ID.
//
// Routes, relative to the server root:
//
//	POST /api/v1/histograms/parse?format=csv|xlsx|json&download=bool
//	POST /api/v1/histograms/summary
//	GET  /api/health
//	GET  /api/health/ready
//	GET  /api/version
//	GET  /metrics
package http
