// Package shared holds helpers used by more than one histogen package.
//
// The testutil subpackage is test-only: a capturing slog handler for
// asserting on log output and builders for SAF documents, so handler,
// service and parser tests share one source of fixture input.
package shared
