// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Artifact locations produced by the training command.
	ModelPath  string `envconfig:"MODEL_PATH" default:"artifacts/modelo_congestion.gob"`
	SchemaPath string `envconfig:"SCHEMA_PATH" default:"artifacts/columnas_modelo.json"`

	// Holiday calendar region code.
	HolidayRegion string `envconfig:"HOLIDAY_REGION" default:"PE"`

	// OpenWeatherMap configuration. Live weather enrichment is enabled only
	// when an API key is set; without one, predictions degrade to the
	// "Desconocido" weather category.
	WeatherAPIKey   string        `envconfig:"WEATHER_API_KEY"`
	WeatherCity     string        `envconfig:"WEATHER_CITY" default:"Lima,PE"`
	WeatherTimeout  time.Duration `envconfig:"WEATHER_TIMEOUT" default:"5s"`
	WeatherCacheTTL time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"10m"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WeatherEnabled reports whether live weather enrichment is configured.
func (c *Config) WeatherEnabled() bool {
	return c.WeatherAPIKey != ""
}

func (c *Config) validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.ModelPath == "" {
		return errors.New("MODEL_PATH is required")
	}
	if c.SchemaPath == "" {
		return errors.New("SCHEMA_PATH is required")
	}
	if c.HolidayRegion == "" {
		return errors.New("HOLIDAY_REGION is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if c.WeatherTimeout <= 0 {
		return errors.New("invalid WEATHER_TIMEOUT")
	}
	if c.WeatherCacheTTL <= 0 {
		return errors.New("invalid WEATHER_CACHE_TTL")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT %q, want json or text", c.LogFormat)
	}
	if c.WeatherEnabled() && c.WeatherCity == "" {
		return errors.New("WEATHER_API_KEY is set but WEATHER_CITY is empty")
	}
	return nil
}
