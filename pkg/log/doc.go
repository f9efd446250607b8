// Package log provides structured event logging for the timer engine.
//
// This package defines the Logger interface and Event types for capturing
// engine-level events across components (transport, engine, group, gesture,
// render). It is separate from operational logging (slog) - event capture
// provides a complete machine-readable trace of inputs, state transitions,
// and render dispatch for debugging synchronization issues.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/decktimer/plugin.dlog")
//
//	// Both: use MultiLogger
//	file, _ := log.NewFileLogger("/var/log/decktimer/plugin.dlog")
//	cfg.Logger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), file)
//
// # Event Types
//
// Events are captured per component:
//   - Input: surface input events (press, release, rotate, settings)
//   - StateChange: timer and membership transitions
//   - Render: render dispatch, including stale-version drops
//
// Errors at any component have a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with .dlog extension. Events use integer
// CBOR keys for compactness. Files are analyzed with the decktimer-log
// command.
package log
