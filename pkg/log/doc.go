// Package log provides the logging abstraction used across the toolkit.
//
// The Logger interface can be implemented by any logging library. A zerolog
// adapter is provided for the CLIs and the GUI server, and a no-op logger
// for tests and library embedding.
//
// # Usage
//
// Wrap an existing zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// Or use the no-op logger in tests:
//
//	logger := log.NewNoopLogger()
package log
