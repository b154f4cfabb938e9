package api

import "fmt"

// Deps maps dependency names to resolved instances.
type Deps map[string]any

// Factory builds the implementation of one API from its resolved dependencies.
type Factory struct {
	API *Ref
	// Deps names the APIs passed to Create, keyed by the name Create reads.
	Deps   map[string]*Ref
	Create func(deps Deps) (any, error)
}

// Holder gives access to registered factories.
type Holder interface {
	Get(ref *Ref) (*Factory, bool)
}

// Dep fetches a typed dependency from deps.
func Dep[T any](deps Deps, name string) (T, error) {
	var zero T
	raw, ok := deps[name]
	if !ok {
		return zero, fmt.Errorf("missing dependency %q", name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("dependency %q has type %T, want %T", name, raw, zero)
	}
	return v, nil
}

// Instance returns a factory that always yields v and has no dependencies.
func Instance(ref *Ref, v any) *Factory {
	return &Factory{
		API:    ref,
		Create: func(Deps) (any, error) { return v, nil },
	}
}
