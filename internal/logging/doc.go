// Package logging assembles the structured slog loggers used across
// trackman components.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes small attribute helpers so components emit data with a uniform
// shape. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
