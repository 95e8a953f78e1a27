// Package logging provides structured logging for Code Wall.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool: config file reads and writes, filesystem
// operations on script folders, and host bridge traffic.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (config cache hits, message payloads)
//   - Info: Normal operations (file operations, bridge connections)
//   - Warn: Non-fatal issues (failed config saves, dropped connections)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Silent By Default
//
// Logging is silent unless CODEWALL_LOG_LEVEL (or the --log-level flag) is set,
// so the CLI and the TUI own the terminal:
//
//	if err := logging.Initialize(level); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// Logs are written to stderr in console format.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
