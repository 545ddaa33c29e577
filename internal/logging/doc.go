// Package logging provides concrete implementations of the cia.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr with thread-safe output
//   - FileLogger: Writes timestamped lines to a per-entry-point log file
//   - NullLogger: Discards all messages (useful for testing)
//   - Multi: Fans a single logger call out to several sinks
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
