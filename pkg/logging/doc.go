// Package logging provides structured logging configuration for transmock.
//
// This package wraps log/slog so the beacon, the transport adapter and the
// CLI all log the same way.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("beacon started", "session", id)
//	logger.Warn("mock transport rewrite failed", "port", port, "error", err)
//
// # Integration
//
// Components accept a *slog.Logger through an option. If none is provided
// they fall back to logging.Nop(), so a send path embedding the adapter stays
// silent unless the host application opts in.
package logging
