package api

import (
	"sort"
	"sync"

	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/core/logger"
	"github.com/kilianp07/apireg/internal/eventbus"
)

// Entry is the factory currently held for an API.
type Entry struct {
	API      *Ref
	Scope    Scope
	Priority int
	Factory  *Factory

	seq uint64
}

// Registry keeps, per API, the factory registered with the highest priority.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[*Ref]Entry
	seq       uint64

	log logger.Logger
	bus *eventbus.Bus[events.Event]
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger logs accepted and rejected registrations at debug level.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithEvents publishes an events.Registration for every Register call.
func WithEvents(bus *eventbus.Bus[events.Event]) Option {
	return func(r *Registry) { r.bus = bus }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[*Ref]Entry),
		log:       logger.Nop{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register stores f for its API unless an entry with the same or a higher
// priority already exists. It returns true when f was stored. A nil factory,
// a factory without API or an unknown scope is rejected.
func (r *Registry) Register(scope Scope, f *Factory) bool {
	priority, ok := scope.Priority()
	if !ok || f == nil || f.API == nil {
		r.log.Warnf("rejected registration: invalid scope %q or factory", scope)
		return false
	}

	r.mu.Lock()
	existing, found := r.factories[f.API]
	accepted := !found || existing.Priority < priority
	if accepted {
		r.seq++
		r.factories[f.API] = Entry{API: f.API, Scope: scope, Priority: priority, Factory: f, seq: r.seq}
	}
	r.mu.Unlock()

	previous := ""
	if found {
		previous = existing.Scope.String()
	}
	r.log.Debugw("factory registration", map[string]any{
		"api":      f.API.ID(),
		"scope":    scope.String(),
		"accepted": accepted,
		"previous": previous,
	})
	r.bus.Publish(events.NewRegistration(f.API.ID(), scope.String(), priority, accepted, previous))
	return accepted
}

// Get returns the factory registered for ref.
func (r *Registry) Get(ref *Ref) (*Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.factories[ref]
	if !ok {
		return nil, false
	}
	return e.Factory, true
}

// Lookup returns the full entry registered for ref.
func (r *Registry) Lookup(ref *Ref) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.factories[ref]
	return e, ok
}

// GetAllAPIs returns a new set holding every API with a registered factory.
func (r *Registry) GetAllAPIs() map[*Ref]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[*Ref]struct{}, len(r.factories))
	for ref := range r.factories {
		set[ref] = struct{}{}
	}
	return set
}

// Entries returns every entry ordered by API id. Distinct refs sharing an id
// keep the order in which they were last stored.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.factories))
	for _, e := range r.factories {
		out = append(out, e)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].API.ID() != out[j].API.ID() {
			return out[i].API.ID() < out[j].API.ID()
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Len returns the number of registered APIs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
