// Package logging assembles the structured slog loggers used across
// cratematch.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can
// automatically tag log lines with track IDs, run IDs, and the query being
// executed. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
package logging
