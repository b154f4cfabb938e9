package plugins

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/apireg/core/api"
	"github.com/kilianp07/apireg/core/factory"
)

// Plugin contributes default implementations for a set of APIs.
type Plugin struct {
	ID        string
	Factories []*api.Factory
}

// ImplementationFactory builds an alternative API factory from raw config.
type ImplementationFactory = factory.Factory[*api.Factory]

// Catalog holds the known plugins and named implementations.
type Catalog struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	impls   *factory.Registry[*api.Factory]
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		plugins: make(map[string]Plugin),
		impls:   factory.NewRegistry[*api.Factory](),
	}
}

// Register adds a plugin. Plugin IDs are unique.
func (c *Catalog) Register(p Plugin) error {
	if p.ID == "" {
		return fmt.Errorf("plugin id is required")
	}
	for _, f := range p.Factories {
		if f == nil || f.API == nil {
			return fmt.Errorf("plugin %s: factory without api", p.ID)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.plugins[p.ID]; ok {
		return fmt.Errorf("plugin already registered: %s", p.ID)
	}
	c.plugins[p.ID] = p
	return nil
}

// Plugin returns the plugin with the given id.
func (c *Catalog) Plugin(id string) (Plugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.plugins[id]
	return p, ok
}

// Plugins returns every plugin sorted by id.
func (c *Catalog) Plugins() []Plugin {
	c.mu.RLock()
	out := make([]Plugin, 0, len(c.plugins))
	for _, p := range c.plugins {
		out = append(out, p)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RegisterImplementation adds a named implementation.
func (c *Catalog) RegisterImplementation(name string, f ImplementationFactory) error {
	return c.impls.Register(name, f)
}

// Implementations lists the implementation names.
func (c *Catalog) Implementations() []string { return c.impls.Names() }

// NewImplementation builds the factory described by cfg.
func (c *Catalog) NewImplementation(cfg factory.ModuleConfig) (*api.Factory, error) {
	f, err := c.impls.Create(cfg)
	if err != nil {
		return nil, err
	}
	if f == nil || f.API == nil {
		return nil, fmt.Errorf("implementation %s returned no api factory", cfg.Type)
	}
	return f, nil
}

// Builtin is the catalog populated by builtin.go.
var Builtin = NewCatalog()
