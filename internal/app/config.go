package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/specialistvlad/shadergrid/internal/preview"
	"github.com/specialistvlad/shadergrid/internal/watch"
	"gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath     string   `yaml:"graph"`     // hcl file or directory
	ManifestPaths []string `yaml:"manifests"` // node_type manifests

	OutputPath       string `yaml:"output"`
	VertexOutputPath string `yaml:"vertex_output"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`

	PreviewURL       string `yaml:"preview_url"`
	PreviewNamespace string `yaml:"preview_namespace"`
	PreviewEvent     string `yaml:"preview_event"`
	PreviewInsecure  bool   `yaml:"preview_insecure_skip_verify"`

	HealthcheckPort int           `yaml:"healthcheck_port"`
	Debounce        time.Duration `yaml:"debounce"`
}

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.PreviewEvent == "" {
		cfg.PreviewEvent = preview.DefaultEvent
	}
	if cfg.PreviewNamespace == "" {
		cfg.PreviewNamespace = "/"
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck-port %d", cfg.HealthcheckPort)
	}
	if cfg.Debounce < 0 {
		return nil, fmt.Errorf("invalid debounce %s: must not be negative", cfg.Debounce)
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = watch.DefaultDebounce
	}

	return &cfg, nil
}

// LoadConfigFile reads a YAML config file. Unknown keys are rejected.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
