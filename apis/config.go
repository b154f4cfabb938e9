package apis

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/apireg/core/api"
)

// ConfigAPI is a read-only view over nested settings addressed by dotted keys.
type ConfigAPI interface {
	String(key string) string
	Int(key string) int
	Bool(key string) bool
	Exists(key string) bool
	Keys() []string
}

type koanfConfig struct {
	k *koanf.Koanf
}

// NewConfig loads settings into a ConfigAPI. Nested maps become dotted keys.
func NewConfig(settings map[string]any) (ConfigAPI, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(settings, "."), nil); err != nil {
		return nil, err
	}
	return &koanfConfig{k: k}, nil
}

func (c *koanfConfig) String(key string) string { return c.k.String(key) }
func (c *koanfConfig) Int(key string) int       { return c.k.Int(key) }
func (c *koanfConfig) Bool(key string) bool     { return c.k.Bool(key) }
func (c *koanfConfig) Exists(key string) bool   { return c.k.Exists(key) }
func (c *koanfConfig) Keys() []string           { return c.k.Keys() }

// ConfigFactory builds the static config API from settings.
func ConfigFactory(settings map[string]any) *api.Factory {
	return &api.Factory{
		API: ConfigRef,
		Create: func(api.Deps) (any, error) {
			return NewConfig(settings)
		},
	}
}
