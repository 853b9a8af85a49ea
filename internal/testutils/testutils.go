// Package testutils provides testing utilities shared by the task queue packages
package testutils

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// DefaultWait bounds how long helpers wait for asynchronous work
const DefaultWait = 5 * time.Second

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Gate blocks tasks until it is opened, so tests can hold the worker busy
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewGate creates a closed gate
func NewGate() *Gate {
	return &Gate{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

// Wait signals entry and blocks until Open is called
func (g *Gate) Wait() {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
}

// Open releases every current and future waiter
func (g *Gate) Open() {
	g.once.Do(func() { close(g.release) })
}

// RequireEntered fails the test if no task reaches the gate in time
func (g *Gate) RequireEntered(t testing.TB) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(DefaultWait):
		require.FailNow(t, "timed out waiting for task to reach gate")
	}
}

// RequireClosed fails the test if ch is not closed in time
func RequireClosed(t testing.TB, ch <-chan struct{}, msgAndArgs ...interface{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(DefaultWait):
		require.FailNow(t, "timed out waiting for channel to close", msgAndArgs...)
	}
}
