// Package services holds the histogen use cases shared by the CLI and the
// HTTP server.
//
// HistogramService owns the parse and export flow. Inputs are opened
// through internal/input and parsed with optional per-input observers;
// tables go out through internal/exporter, with spans and conversion
// metrics recorded on the way. ConvertAll fans out over files with a
// bounded errgroup, one parser per file.
//
// HealthService backs the health and version endpoints.
package services
