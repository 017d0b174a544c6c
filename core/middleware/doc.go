// Package middleware contains HTTP middleware for the Fiber listeners the
// tool starts, such as the OAuth redirect listener.
//
// # Components
//
//   - requestid: assigns every request an id, stores it in the request
//     locals under "request_id" and echoes it in the X-Request-ID header so
//     logger.WithRequestID can attach it to log lines.
package middleware
