package config

import (
	"time"

	"github.com/jzx17/gotaskqueue/pkg/types"
)

// Config holds all application configuration.
type Config struct {
	Queue   QueueConfig   `mapstructure:"queue" validate:"required"`
	Demo    DemoConfig    `mapstructure:"demo" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// QueueConfig configures the task manager.
type QueueConfig struct {
	Name           string `mapstructure:"name" validate:"required"`
	ShutdownPolicy string `mapstructure:"shutdown_policy" validate:"required,oneof=drain discard"`
}

// Policy parses ShutdownPolicy.
func (c QueueConfig) Policy() (types.ShutdownPolicy, error) {
	return types.ParseShutdownPolicy(c.ShutdownPolicy)
}

// DemoConfig shapes the workload the binary submits.
type DemoConfig struct {
	Producers     int           `mapstructure:"producers" validate:"gte=1,lte=64"`
	Tasks         int           `mapstructure:"tasks" validate:"gte=1,lte=100000"`
	TaskDelay     time.Duration `mapstructure:"task_delay" validate:"gte=0"`
	FailEvery     int           `mapstructure:"fail_every" validate:"gte=0"`
	ResultTimeout time.Duration `mapstructure:"result_timeout" validate:"gt=0"`
	SubmitRate    float64       `mapstructure:"submit_rate" validate:"gte=0"`
	SubmitBurst   int           `mapstructure:"submit_burst" validate:"gte=1"`
	ShutdownAfter time.Duration `mapstructure:"shutdown_after" validate:"gte=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// MetricsConfig contains the Prometheus endpoint settings. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}
