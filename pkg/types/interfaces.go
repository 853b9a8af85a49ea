// Package types defines core types shared by the task queue packages
package types

import (
	"fmt"
	"strings"
	"time"
)

// ShutdownPolicy decides what happens to queued tasks when a manager shuts down
type ShutdownPolicy int

const (
	// PolicyDrain executes every queued task before the worker exits
	PolicyDrain ShutdownPolicy = iota
	// PolicyDiscard fails every queued task with ErrAbandonedOnShutdown
	PolicyDiscard
)

// String returns the string representation of ShutdownPolicy
func (p ShutdownPolicy) String() string {
	switch p {
	case PolicyDrain:
		return "drain"
	case PolicyDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// Valid reports whether p is a known policy
func (p ShutdownPolicy) Valid() bool {
	return p == PolicyDrain || p == PolicyDiscard
}

// ParseShutdownPolicy parses "drain" or "discard", case-insensitively
func ParseShutdownPolicy(s string) (ShutdownPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drain":
		return PolicyDrain, nil
	case "discard":
		return PolicyDiscard, nil
	default:
		return 0, fmt.Errorf("%w: unknown shutdown policy %q", ErrInvalidConfig, s)
	}
}

// ManagerState defines the lifecycle state of a task manager.
// It only moves forward: Running, ShuttingDown, Stopped.
type ManagerState int32

const (
	// StateRunning accepts submissions
	StateRunning ManagerState = iota
	// StateShuttingDown rejects submissions while the worker applies its policy
	StateShuttingDown
	// StateStopped means the worker has exited
	StateStopped
)

// String returns the string representation of ManagerState
func (s ManagerState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Result defines the final outcome of a task
type Result[R any] struct {
	// Value is the execution result
	Value R

	// Error is the execution error
	Error error

	// Duration is the execution time
	Duration time.Duration
}

// OK reports whether the result carries no error
func (r Result[R]) OK() bool {
	return r.Error == nil
}

// ErrorHandler is invoked with every task failure.
// A non-nil return is logged by the worker; the failure is still delivered to the result handle.
type ErrorHandler func(error) error
