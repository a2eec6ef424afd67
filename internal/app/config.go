package app

import (
	"errors"
	"fmt"

	"github.com/vk/serialgraph/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputPath string // schedule file or directory
	Sheet     string // xlsx worksheet, empty for the first one

	Format     string // report format: text or json
	GraphOut   string // DOT output path, empty to skip
	CycleLimit int    // simple cycles to enumerate, 0 to skip
	Strict     bool

	Watch           bool
	HealthcheckPort int

	PublishURL       string
	PublishNamespace string

	OTLPEndpoint string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}

	if cfg.Format == "" {
		cfg.Format = string(render.FormatText)
	}
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		return nil, err
	}

	if cfg.CycleLimit < 0 {
		return nil, fmt.Errorf("cycle limit must not be negative, got %d", cfg.CycleLimit)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	if cfg.HealthcheckPort > 0 && !cfg.Watch {
		return nil, errors.New("healthcheck port requires watch mode")
	}

	if cfg.PublishNamespace == "" {
		cfg.PublishNamespace = "/"
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return &cfg, nil
}
