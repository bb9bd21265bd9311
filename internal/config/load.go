package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. TASKHUB_SERVER_PORT or TASKHUB_DATABASE_URL.
const EnvPrefix = "TASKHUB"

// Every key must be listed here so AutomaticEnv can see it on Unmarshal.
var defaults = map[string]any{
	"server.port":                8080,
	"server.log_level":           "info",
	"server.read_timeout":        "15s",
	"server.write_timeout":       "15s",
	"server.idle_timeout":        "60s",
	"server.shutdown_timeout":    "30s",
	"database.driver":            "postgres",
	"database.url":               "",
	"database.max_open_conns":    25,
	"database.max_idle_conns":    25,
	"database.conn_max_lifetime": "5m",
	"database.auto_migrate":      false,
}

// Load configuration from defaults, an optional config file and environment
// variables, in increasing order of precedence.
//
// If path is empty, config.yaml is looked up in the working directory and a
// missing file is not an error. If path is set, the file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
