// Package config loads the taskqueue binary's configuration with viper and
// validates it with go-playground/validator.
//
// Sources, highest precedence first:
//   - environment variables prefixed with TASKQUEUE_, nested keys joined by
//     underscores (TASKQUEUE_QUEUE_SHUTDOWN_POLICY, TASKQUEUE_LOG_LEVEL)
//   - the config file passed to Load, or ./taskqueue.yaml when none is given
//   - built-in defaults
//
// Library packages do not use this package; they take their own Config
// structs with DefaultConfig constructors.
package config
