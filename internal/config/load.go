package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. TASKQUEUE_QUEUE_SHUTDOWN_POLICY.
const EnvPrefix = "TASKQUEUE"

var defaults = map[string]interface{}{
	"queue.name":            "taskqueue",
	"queue.shutdown_policy": "drain",
	"demo.producers":        2,
	"demo.tasks":            20,
	"demo.task_delay":       "20ms",
	"demo.fail_every":       7,
	"demo.result_timeout":   "5s",
	"demo.submit_rate":      0.0,
	"demo.submit_burst":     1,
	"demo.shutdown_after":   "0s",
	"log.level":             "info",
	"log.format":            "json",
	"metrics.addr":          "",
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the file. With an
// empty path, ./taskqueue.{yaml,json,toml} is used if present.
// Returns a populated Config or an error if loading or validation fails.
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("taskqueue")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
