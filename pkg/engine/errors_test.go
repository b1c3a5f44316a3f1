package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestEngineError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *EngineError
		want string
	}{
		{
			name: "message only",
			err:  NewPermanentError("component name is empty", nil),
			want: "[permanent] component name is empty",
		},
		{
			name: "with component",
			err:  NewConflictError("A is still needed", nil).WithComponent("A"),
			want: "[conflict] A is still needed (component=A)",
		},
		{
			name: "with component and operation",
			err:  NewConflictError("A is still needed", nil).WithComponent("A").WithOperation("remove"),
			want: "[conflict] A is still needed (component=A, operation=remove)",
		},
		{
			name: "with cause",
			err:  NewPermanentError("bad input", errors.New("boom")),
			want: "[permanent] bad input: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEngineError_Classification(t *testing.T) {
	cycle := NewPermanentError("B depends on A", nil).WithCode(ErrCodeCycleRejected)
	needed := NewConflictError("A is still needed", nil).WithCode(ErrCodeStillNeeded)
	wrapped := fmt.Errorf("command failed: %w", needed)

	if !IsCycle(cycle) || IsStillNeeded(cycle) || IsRetryable(cycle) {
		t.Errorf("Unexpected classification for %v", cycle)
	}
	if !IsStillNeeded(wrapped) || !IsConflict(wrapped) || !IsRetryable(wrapped) {
		t.Errorf("Unexpected classification for %v", wrapped)
	}
	if IsNameTooLong(nil) || CodeOf(errors.New("plain")) != "" {
		t.Error("Expected plain errors to carry no code")
	}

	if !errors.Is(wrapped, &EngineError{Class: ErrorClassConflict, Code: ErrCodeStillNeeded}) {
		t.Error("Expected errors.Is to match on class and code")
	}
	if errors.Is(wrapped, &EngineError{Class: ErrorClassConflict, Code: ErrCodeCycleRejected}) {
		t.Error("Expected errors.Is to reject a different code")
	}
}

func TestEngineError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewPermanentError("wrapped", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
}
