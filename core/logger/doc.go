// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and console or JSON encoding.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
//
//	// In the OAuth callback handler:
//	l := logger.WithRequestID(log, c)
//	l.Error("Token exchange failed", zap.Error(err))
package logger
