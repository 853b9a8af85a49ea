package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrSubmissionRejected", ErrSubmissionRejected},
		{"ErrAbandonedOnShutdown", ErrAbandonedOnShutdown},
		{"ErrTimeout", ErrTimeout},
		{"ErrNilTask", ErrNilTask},
		{"ErrInvalidConfig", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("expected error, got nil")
			}
			if tt.err.Error() == "" {
				t.Errorf("expected non-empty error message")
			}
		})
	}
}

func TestTaskError(t *testing.T) {
	t.Run("Returned Error", func(t *testing.T) {
		cause := errors.New("boom")
		taskErr := NewTaskError("task-1", cause)

		if taskErr.Error() != "task task-1 failed: boom" {
			t.Errorf("unexpected message %q", taskErr.Error())
		}
		if !errors.Is(taskErr, cause) {
			t.Errorf("expected errors.Is to match the cause")
		}
		if !IsTaskFailure(taskErr) {
			t.Errorf("expected IsTaskFailure to be true")
		}
	})

	t.Run("Panic", func(t *testing.T) {
		taskErr := NewTaskError("task-2", errors.New("nil map"))
		taskErr.Panicked = true

		if !strings.Contains(taskErr.Error(), "panicked") {
			t.Errorf("expected panic message, got %q", taskErr.Error())
		}
	})

	t.Run("Context", func(t *testing.T) {
		taskErr := &TaskError{TaskID: "task-3", Cause: errors.New("x")}
		taskErr.WithContext("attempt", 2).WithContext("worker", "w")

		if taskErr.Context["attempt"] != 2 {
			t.Errorf("expected attempt context, got %v", taskErr.Context["attempt"])
		}
		if len(taskErr.Context) != 2 {
			t.Errorf("expected 2 context entries, got %d", len(taskErr.Context))
		}
	})

	t.Run("Wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("reading result: %w", NewTaskError("task-4", ErrTimeout))

		if !IsTaskFailure(wrapped) {
			t.Errorf("expected wrapped task error to be detected")
		}
		if !errors.Is(wrapped, ErrTimeout) {
			t.Errorf("expected wrapped cause to be reachable")
		}
	})
}

func TestErrorClassifiers(t *testing.T) {
	abandoned := fmt.Errorf("task abc: %w", ErrAbandonedOnShutdown)
	rejected := fmt.Errorf("manager default: %w", ErrSubmissionRejected)

	if !IsAbandoned(abandoned) || IsAbandoned(rejected) {
		t.Errorf("IsAbandoned misclassified")
	}
	if !IsRejected(rejected) || IsRejected(abandoned) {
		t.Errorf("IsRejected misclassified")
	}
	if IsTaskFailure(abandoned) {
		t.Errorf("abandoned error is not a task failure")
	}
}
