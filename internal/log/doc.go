// Package log provides logger construction for fnmetrics, built on top of
// the standard slog package.
//
// This package extends slog to provide:
//   - Truncation of long string values (cell and header text can be large)
//   - Configurable log levels with verbose mode support
//   - Text or JSON output with the same behavior
//
// Logs always go to stderr so that stdout carries nothing but records.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("row has a single cell, skipping",
//	    "cell", text, // Cut to MaxValueLen runes with an ellipsis
//	)
//
//	slog.SetDefault(logger)
package log
