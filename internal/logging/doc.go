// Package logging assembles structured slog loggers and formatting helpers used
// across tracksplit.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so pipeline code can tag every line with the
// run identifier, the component and the track being processed. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
