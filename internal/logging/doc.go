// Package logging assembles structured slog loggers and formatting helpers used
// across silhouette.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// fans records out to the terminal and the persistent log file, and exposes
// context-aware helpers so stage code can automatically tag log lines with job
// IDs, stages, and correlation IDs. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
