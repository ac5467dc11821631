// Package logger wraps zap for structured logging across the engine,
// adapted from the teacher's pkg/logger: the same Field/Options shape,
// trimmed of the HTTP-request field enrichment this service doesn't have.
package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/raunit-dev/OrderBook/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger to provide structured logging with a stable
// call surface independent of the underlying library.
type Logger struct {
	logger *zap.Logger
}

// Field holds a key-value pair to attach to a log entry.
type Field struct {
	Key   string
	Value any
}

// Level is the minimum severity that will be emitted.
type Level string

const (
	// DebugLevel emits debug messages and above.
	DebugLevel Level = "debug"
	// InfoLevel emits informational messages and above.
	InfoLevel Level = "info"
	// WarnLevel emits warnings and above.
	WarnLevel Level = "warn"
	// ErrorLevel emits only errors.
	ErrorLevel Level = "error"

	messageKey = "message"
	requestKey = "command_id"
)

// Options configures a Logger built with New.
type Options struct {
	level       Level
	outputPaths []string
}

// WithLevel sets the minimum level that will be logged. Defaults to info.
func WithLevel(level Level) Options {
	return Options{level: level}
}

// WithOutputPaths sets the sinks logs are written to ("stdout"/"stderr" or
// a file path).
func WithOutputPaths(paths []string) Options {
	return Options{outputPaths: paths}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a Logger from the given options, applied production defaults
// (JSON encoding to stderr) otherwise.
func New(opts ...Options) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	for _, opt := range opts {
		if opt.level != "" {
			cfg.Level = zap.NewAtomicLevelAt(opt.level.zapLevel())
		}
		if opt.outputPaths != nil {
			cfg.OutputPaths = opt.outputPaths
		}
	}
	cfg.EncoderConfig.MessageKey = messageKey

	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger: zl}, nil
}

// Sync flushes buffered log entries. Call before process exit.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// Info logs at info level.
func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, convertFields(fields)...)
}

// InfoContext logs at info level, appending the command id found in ctx.
func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, appendCommandID(ctx, fields)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, convertFields(fields)...)
}

// WarnContext logs at warn level, appending the command id found in ctx.
func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, appendCommandID(ctx, fields)...)
}

// Debug logs at debug level.
func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, convertFields(fields)...)
}

// Error logs at error level, attaching a stack trace when err carries one.
func (l *Logger) Error(err error, fields ...Field) {
	zapFields := convertFields(fields)

	var stacktrace string
	if tracer, ok := err.(errors.StackTracer); ok {
		stacktrace = strings.TrimSpace(fmt.Sprintf("%+v", tracer.StackTrace()))
	}

	if ce := l.logger.Check(zapcore.ErrorLevel, err.Error()); ce != nil {
		if stacktrace != "" {
			ce.Stack = stacktrace
		}
		ce.Write(zapFields...)
	}
}

// ErrorContext logs at error level, appending the command id found in ctx.
func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, appendCommandID(ctx, fields)...)
}

// With returns a child logger with the given fields attached to every entry.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{logger: l.logger.With(convertFields(fields)...)}
}

func convertFields(fields []Field) []zapcore.Field {
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func appendCommandID(ctx context.Context, fields []Field) []Field {
	if id, ok := ctx.Value(commandIDKey{}).(string); ok {
		return append(fields, Field{Key: requestKey, Value: id})
	}
	return fields
}

type commandIDKey struct{}

// WithCommandID returns a context carrying a command id for later log
// correlation via *Context logging methods.
func WithCommandID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, commandIDKey{}, id)
}
