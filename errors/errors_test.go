package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := UnsupportedFormat("txt", []string{"wav", "mp3"})
	if got := KindOf(err); got != KindUnsupportedFormat {
		t.Errorf("expected %s, got %s", KindUnsupportedFormat, got)
	}
	if KindOf(stderrors.New("plain")) != "" {
		t.Error("expected empty kind for untyped error")
	}
	if KindOf(nil) != "" {
		t.Error("expected empty kind for nil error")
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := ServiceUnavailable("connection refused")
	wrapped := fmt.Errorf("transcribe: %w", inner)

	if !Is(wrapped, KindServiceUnavailable) {
		t.Error("expected kind to survive wrapping")
	}
	if !IsRetryable(wrapped) {
		t.Error("expected retryable to survive wrapping")
	}
}

func TestRetryability(t *testing.T) {
	tests := []struct {
		err       *Error
		retryable bool
	}{
		{ServiceUnavailable("down"), true},
		{UnsupportedFormat("txt", nil), false},
		{PayloadTooLarge(100, 10), false},
		{InvalidRequest(400, "bad language"), false},
		{MalformedResponse("missing text"), false},
		{UnsupportedCapability("base.en", "translate"), false},
		{EndpointUnavailable("whisper"), false},
		{Lifecycle("start", stderrors.New("boom")), false},
	}

	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.retryable {
			t.Errorf("%s: expected retryable=%v, got %v", tt.err.Kind, tt.retryable, got)
		}
	}
}

func TestErrorString(t *testing.T) {
	err := Lifecycle("start", stderrors.New("docker daemon unreachable"))
	msg := err.Error()
	if !strings.Contains(msg, "LIFECYCLE_ERROR") {
		t.Errorf("expected kind in message, got %q", msg)
	}
	if !strings.Contains(msg, "docker daemon unreachable") {
		t.Errorf("expected cause in message, got %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Lifecycle("stop", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestWithDetail(t *testing.T) {
	err := InvalidRequest(400, "invalid language code")
	if err.Details["status"] != 400 {
		t.Errorf("expected status detail 400, got %v", err.Details["status"])
	}
}
