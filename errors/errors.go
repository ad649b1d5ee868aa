package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the unified subsystem error type.
type Error struct {
	// Kind is a machine-readable error classification.
	Kind Kind `json:"kind"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the failed operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with retryability derived from the kind.
func New(kind Kind, message string) *Error {
	return &Error{
		Kind:      kind,
		Message:   message,
		Retryable: IsRetryableKind(kind),
	}
}

// Newf creates a new Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of err, or the empty Kind if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsRetryable reports whether err is a typed error marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Retryable
}

// --- Common constructors ---

// UnsupportedFormat reports an audio file extension outside the supported set.
func UnsupportedFormat(ext string, supported []string) *Error {
	return Newf(KindUnsupportedFormat, "audio format %q is not supported", ext).
		WithDetail("extension", ext).
		WithDetail("supported", supported)
}

// PayloadTooLarge reports an audio payload over the size limit.
func PayloadTooLarge(size, limit int64) *Error {
	return Newf(KindPayloadTooLarge, "audio payload of %d bytes exceeds limit of %d bytes", size, limit).
		WithDetail("size_bytes", size).
		WithDetail("limit_bytes", limit)
}

// UnsupportedCapability reports a task the bound model does not advertise.
func UnsupportedCapability(modelID, task string) *Error {
	return Newf(KindUnsupportedCapability, "model %q does not support task %q", modelID, task).
		WithDetail("model", modelID).
		WithDetail("task", task)
}

// ServiceUnavailable reports that the service cannot currently take requests.
func ServiceUnavailable(message string) *Error {
	return New(KindServiceUnavailable, message)
}

// InvalidRequest reports a remote 4xx rejection.
func InvalidRequest(status int, message string) *Error {
	return Newf(KindInvalidRequest, "remote service rejected request: %s", message).
		WithDetail("status", status)
}

// MalformedResponse reports an unparseable or incomplete remote response.
func MalformedResponse(message string) *Error {
	return New(KindMalformedResponse, message)
}

// EndpointUnavailable reports that the service exposed no ports.
func EndpointUnavailable(service string) *Error {
	return Newf(KindEndpointUnavailable, "service %q reports no exposed ports", service).
		WithDetail("service", service)
}

// Lifecycle reports a start/stop orchestration failure, preserving the cause.
func Lifecycle(op string, cause error) *Error {
	return Newf(KindLifecycle, "%s failed", op).
		WithDetail("operation", op).
		WithCause(cause)
}
