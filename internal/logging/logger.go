package logging

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
)

// requestIDKey is the key used to store request ID in context
type requestIDKey struct{}

var debugEnabled atomic.Bool

// SetLevel switches debug lines on for "debug" and off for anything else.
func SetLevel(level string) {
	debugEnabled.Store(strings.EqualFold(strings.TrimSpace(level), "debug"))
}

// WithRequestID stores a request ID in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID from ctx, or "" when none was set.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging scoped to one request or session
type Logger struct {
	requestID string
	sessionID string
}

// New creates a logger with request context
func New(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{requestID: requestID}
}

// WithSession returns a copy of l that also tags lines with a session ID.
func (l *Logger) WithSession(id string) *Logger {
	cp := *l
	cp.sessionID = id
	return &cp
}

func (l *Logger) prefix(level, operation string) string {
	if l.sessionID != "" {
		return "[" + level + "] request_id=" + l.requestID + " session_id=" + l.sessionID + " operation=" + operation
	}
	return "[" + level + "] request_id=" + l.requestID + " operation=" + operation
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	log.Printf("%s error=%v", l.prefix("error", operation), err)
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	log.Printf(l.prefix("error", operation)+" "+format, args...)
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	log.Printf("%s message=%s", l.prefix("info", operation), message)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	log.Printf(l.prefix("info", operation)+" "+format, args...)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	log.Printf(l.prefix("warn", operation)+" "+format, args...)
}

// LogDebugf logs only when the level is debug
func (l *Logger) LogDebugf(operation string, format string, args ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	log.Printf(l.prefix("debug", operation)+" "+format, args...)
}
