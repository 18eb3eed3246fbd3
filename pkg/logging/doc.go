// Package logging provides structured logging configuration for proxymock.
//
// It wraps log/slog so every component logs the same way. Components accept
// a *slog.Logger in their constructor; pass logging.Nop() when output is not
// wanted (tests, benchmarks).
package logging
