package errors

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// ErrorTracer is a custom error type that includes a message and an underlying error.
type ErrorTracer struct {
	Message string
	Err     error
}

// NewTracer creates a new ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError creates a new ErrorTracer from an existing error, preserving the stack trace.
func TracerFromError(err error) *ErrorTracer {
	tracer := NewTracer(err.Error())
	tracer.Err = err
	if !hasStack(err) {
		tracer.Err = errors.WithStack(err)
	}
	return tracer
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// hasStack reports whether a stack trace is already attached anywhere in
// the error chain. A bare type assertion would miss tracers behind
// fmt.Errorf %w wrapping.
func hasStack(err error) bool {
	var tracer StackTracer
	return stderrors.As(err, &tracer)
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap wraps an existing error into the ErrorTracer, preserving the stack trace.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if !hasStack(err) {
		e.Err = errors.WithStack(err)
	}

	return e
}

// StackTrace returns the stack trace of the underlying error if any error
// in its chain implements StackTracer.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	var tracer StackTracer
	if stderrors.As(e.Unwrap(), &tracer) {
		return tracer.StackTrace()
	}
	return nil
}
