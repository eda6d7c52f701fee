// Package logger wraps a zap sugared logger with a process-wide atomic level
// and context helpers, so that request-scoped fields follow a call chain.
package logger
