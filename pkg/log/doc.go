// Package log provides structured call tracing for the address space.
//
// This package defines the Logger interface and the Event type for capturing
// every construction call (AddNode, AddReference, BindDataSource,
// RegisterType) and every service call (Read, Write) made against the
// information model. It is separate from operational logging (slog) - call
// tracing provides a complete machine-readable record for debugging.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	space.SetLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/infomodel/calls.ilog")
//	space.SetLogger(fl)
//
//	// Both: use MultiLogger
//	space.SetLogger(log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl))
//
// # File Format
//
// Log files are a stream of CBOR-encoded events. Reader iterates a file and
// Filter narrows it by category, operation, node or time window.
package log
