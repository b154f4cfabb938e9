package config

import "fmt"

// TracingConfig configures OpenTelemetry spans around API resolution.
type TracingConfig struct {
	Enabled bool `json:"enabled"`
	// Exporter is "stdout" or "none".
	Exporter    string `json:"exporter"`
	ServiceName string `json:"service_name"`
}

// SetDefaults applies sane defaults.
func (c *TracingConfig) SetDefaults() {
	if c.Exporter == "" {
		c.Exporter = "stdout"
	}
	if c.ServiceName == "" {
		c.ServiceName = "apireg"
	}
}

// Validate checks the exporter name.
func (c TracingConfig) Validate() error {
	if c.Exporter != "stdout" && c.Exporter != "none" {
		return fmt.Errorf("unknown exporter %s", c.Exporter)
	}
	return nil
}
