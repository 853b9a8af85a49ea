package worker

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jzx17/gotaskqueue/pkg/types"
)

// Config defines configuration for a task manager
type Config struct {
	// Name identifies the manager in logs and metrics
	Name string

	// Policy decides what happens to queued tasks on shutdown.
	// It is fixed for the manager's lifetime.
	Policy types.ShutdownPolicy

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Logger for structured logging (optional, defaults to a discarding logger)
	Logger *slog.Logger

	// Observer receives lifecycle events (optional)
	Observer Observer

	// ErrorHandler is called with every task failure (optional)
	ErrorHandler types.ErrorHandler
}

// DefaultConfig returns default configuration: drain on shutdown
func DefaultConfig() *Config {
	return &Config{
		Name:   "default",
		Policy: types.PolicyDrain,
		Clock:  types.NewRealClock(),
	}
}

// normalize validates c and fills in optional fields
func (c *Config) normalize() error {
	if !c.Policy.Valid() {
		return fmt.Errorf("%w: unknown shutdown policy %d", types.ErrInvalidConfig, c.Policy)
	}
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Clock == nil {
		c.Clock = types.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Observer == nil {
		c.Observer = NoopObserver{}
	}
	return nil
}
