// Package logging provides structured logging for confdoc.
//
// This package wraps a zap logger with convenience functions for the events
// the document layer reports: loads, load failures, sync checks and watch
// notifications.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Sync checks and filesystem watch events
//   - Info: Successful loads with node and label counts
//   - Warn: Load failures (the previous tree is kept)
//   - Error: CLI-level failures
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.LogLoad("robot.yaml", "yaml", 42, 17, time.Millisecond)
//
// # Configuration
//
// Logging is silent unless a level is given, either through the --log-level
// flag or the CONFDOC_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize(level); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Output goes to stderr in console format so it never mixes with documents
// printed on stdout.
package logging
