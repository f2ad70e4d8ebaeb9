// Package logging builds the structured loggers used across hitvcr.
//
// It wraps log/slog with a small Config (level, text or json format, output
// writer). Components accept a *slog.Logger through an option and fall back
// to Nop when none is given.
package logging
