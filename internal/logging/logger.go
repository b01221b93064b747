// Package logging provides structured logging for the sitemap library,
// backed by log/slog with component-scoped loggers.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logging interface used across the library.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// SitemapLogger implements Logger on top of slog.
type SitemapLogger struct {
	logger *slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "text"
	Output io.Writer
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
		Output: os.Stdout,
	}
}

// NewLogger creates a new structured logger.
func NewLogger(config *Config) *SitemapLogger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(config.Output, opts)
	} else {
		handler = slog.NewTextHandler(config.Output, opts)
	}

	return &SitemapLogger{logger: slog.New(handler)}
}

// NewNopLogger returns a logger that discards all output. Useful in tests.
func NewNopLogger() *SitemapLogger {
	return NewLogger(&Config{Level: "error", Output: io.Discard})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message.
func (l *SitemapLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.DebugContext(ctx, msg, fields...)
}

// Info logs an informational message.
func (l *SitemapLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.logger.InfoContext(ctx, msg, fields...)
}

// Warn logs a warning, attaching err when non-nil.
func (l *SitemapLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.logger.WarnContext(ctx, msg, withError(err, fields)...)
}

// Error logs an error, attaching err when non-nil.
func (l *SitemapLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.logger.ErrorContext(ctx, msg, withError(err, fields)...)
}

// With returns a logger with additional fields attached to every record.
func (l *SitemapLogger) With(fields ...interface{}) Logger {
	return &SitemapLogger{logger: l.logger.With(fields...)}
}

// WithComponent returns a logger scoped to a named component.
func (l *SitemapLogger) WithComponent(component string) Logger {
	return l.With("component", component)
}

func withError(err error, fields []interface{}) []interface{} {
	if err == nil {
		return fields
	}
	return append([]interface{}{"error", err.Error()}, fields...)
}
