package errors

import "github.com/pkg/errors"

// ErrorTracer wraps an internal, unexpected failure (an invariant violation
// inside the book or ledger) with a stack trace, so pkg/logger can attach
// it to the error log line instead of a bare message. Command-local
// failures use ErrorDetails instead; ErrorTracer is reserved for bugs.
type ErrorTracer struct {
	Message string
	Err     error
}

// NewTracer creates a bare ErrorTracer with the given message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{Message: message}
}

// TracerFromError wraps an existing error, preserving its stack trace if it
// already has one, or attaching a fresh one if it doesn't.
func TracerFromError(err error) *ErrorTracer {
	tracer := NewTracer(err.Error())
	tracer.Err = err
	if _, ok := err.(StackTracer); !ok {
		tracer.Err = errors.WithStack(err)
	}
	return tracer
}

// StackTracer is implemented by errors carrying a stack trace.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap attaches err as the cause, giving it a stack trace if it lacks one.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if _, ok := err.(StackTracer); !ok {
		e.Err = errors.WithStack(err)
	}
	return e
}

// StackTrace returns the underlying stack trace, if any.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if tracer, ok := e.Unwrap().(StackTracer); ok {
		return tracer.StackTrace()
	}
	return nil
}
