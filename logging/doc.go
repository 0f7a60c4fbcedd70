// Package logging provides a minimal logging interface and adapters for campusmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the loop driver, router and gateway use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - SessionLogger attaching a session identifier to every entry
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// The design intentionally keeps the interface minimal so callers can plug
// any structured logger while components stay free of global logger state.
package logging
