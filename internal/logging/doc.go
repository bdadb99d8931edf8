// Package logging provides structured logging for the telemetry core.
//
// This package wraps zap with convenience functions for the logging patterns
// used throughout internal/protocol and internal/transport: frame-level hex
// dumps, session state transitions, and the CRC/version rejection events
// described by the error taxonomy.
//
// # Log Levels
//
//   - Debug: raw frame bytes, byte-at-a-time resync steps
//   - Info: session state transitions
//   - Warn: recoverable frame errors (CRC mismatch, unsupported version),
//     failed port opens, dials and command writes
//   - Error: not emitted by internal/protocol or internal/transport
//
// # Structured Logging
//
//	logging.Info("session state transition",
//	    zap.String("adapter", "serial"),
//	    zap.String("from", "configuring"),
//	    zap.String("to", "streaming"),
//	)
//
// # Configuration
//
// Initialize logging once at host startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Until Initialize is called the logger is silent (zap.NewNop), so importing
// this package as a library dependency has no observable side effect.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use; the underlying zap
// logger handles synchronization.
package logging
