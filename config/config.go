package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/apireg/core/audit"
	"github.com/kilianp07/apireg/core/metrics"
)

// EnvPrefix marks environment overrides: K_AUDIT__PATH sets audit.path.
const EnvPrefix = "K_"

type Config struct {
	APIs     APIsConfig     `json:"apis"`
	Audit    audit.Config   `json:"audit"`
	Metrics  metrics.Config `json:"metrics"`
	Tracing  TracingConfig  `json:"tracing"`
	Settings map[string]any `json:"settings"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills every section's defaults.
func (c *Config) SetDefaults() {
	c.Audit.SetDefaults()
	c.Tracing.SetDefaults()
	if c.Settings == nil {
		c.Settings = map[string]any{}
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.APIs.Validate(); err != nil {
		return fmt.Errorf("apis: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// Load reads a YAML or JSON file, applies K_ environment overrides, defaults
// and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
