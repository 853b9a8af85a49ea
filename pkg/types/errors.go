// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrSubmissionRejected indicates work was submitted after shutdown began
	ErrSubmissionRejected = errors.New("task manager is shut down: submission rejected")

	// ErrAbandonedOnShutdown indicates a queued task was discarded before it ran
	ErrAbandonedOnShutdown = errors.New("queue shut down before execution")

	// ErrTimeout indicates a bounded wait elapsed
	ErrTimeout = errors.New("operation timeout")

	// ErrNilTask indicates a nil callable was submitted
	ErrNilTask = errors.New("task cannot be nil")

	// ErrInvalidConfig indicates an invalid configuration value
	ErrInvalidConfig = errors.New("invalid configuration")
)

// TaskError is the failure of a single task's callable.
// It is delivered through the task's result handle, never through the worker.
type TaskError struct {
	// TaskID identifies the task that failed
	TaskID string

	// Cause is the error returned by the callable, or the recovered panic value
	Cause error

	// Panicked reports whether the callable panicked
	Panicked bool

	// Context contains error context information
	Context map[string]interface{}
}

// NewTaskError creates a new task error
func NewTaskError(taskID string, cause error) *TaskError {
	return &TaskError{
		TaskID:  taskID,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *TaskError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("task %s panicked: %v", e.TaskID, e.Cause)
	}
	return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Cause)
}

// Unwrap returns the underlying error
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// WithContext adds error context
func (e *TaskError) WithContext(key string, value interface{}) *TaskError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsTaskFailure checks whether err came from a task's own callable
func IsTaskFailure(err error) bool {
	var taskErr *TaskError
	return errors.As(err, &taskErr)
}

// IsAbandoned checks whether err marks a task discarded on shutdown
func IsAbandoned(err error) bool {
	return errors.Is(err, ErrAbandonedOnShutdown)
}

// IsRejected checks whether err marks a submission refused after shutdown
func IsRejected(err error) bool {
	return errors.Is(err, ErrSubmissionRejected)
}
