package config

import (
	"fmt"

	"github.com/kilianp07/apireg/core/api"
	"github.com/kilianp07/apireg/core/factory"
)

// OverrideConfig selects a named implementation to register for its API.
// Each implementation decodes Conf into its own struct.
type OverrideConfig struct {
	Type string `json:"type"`
	// Scope defaults to "app".
	Scope string         `json:"scope"`
	Conf  map[string]any `json:"conf"`
}

// ScopeOrDefault returns the parsed scope, ScopeApp when unset.
func (o OverrideConfig) ScopeOrDefault() (api.Scope, error) {
	if o.Scope == "" {
		return api.ScopeApp, nil
	}
	return api.ParseScope(o.Scope)
}

// Module returns the implementation lookup key and raw settings.
func (o OverrideConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: o.Type, Conf: o.Conf}
}

// APIsConfig lists enabled plugins and overrides.
type APIsConfig struct {
	// Plugins restricts the built-in plugins registered; empty enables all.
	Plugins   []string         `json:"plugins"`
	Overrides []OverrideConfig `json:"overrides"`
}

// Validate checks overrides are well formed.
func (c APIsConfig) Validate() error {
	for i, o := range c.Overrides {
		if o.Type == "" {
			return fmt.Errorf("override %d: type is required", i)
		}
		if _, err := o.ScopeOrDefault(); err != nil {
			return fmt.Errorf("override %d: %w", i, err)
		}
	}
	return nil
}
