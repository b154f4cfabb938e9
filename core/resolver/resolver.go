package resolver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kilianp07/apireg/core/api"
	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/core/logger"
	"github.com/kilianp07/apireg/internal/eventbus"
)

const tracerName = "github.com/kilianp07/apireg/core/resolver"

// Resolver instantiates APIs from the factories of a Holder. Each API is
// created at most once and cached for the lifetime of the resolver.
type Resolver struct {
	holder api.Holder

	mu        sync.Mutex
	instances map[*api.Ref]any

	log    logger.Logger
	bus    *eventbus.Bus[events.Event]
	tracer trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithEvents publishes an events.Resolution for each resolved API.
func WithEvents(bus *eventbus.Bus[events.Event]) Option {
	return func(r *Resolver) { r.bus = bus }
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// New returns a resolver reading factories from holder.
func New(holder api.Holder, opts ...Option) *Resolver {
	r := &Resolver{
		holder:    holder,
		instances: make(map[*api.Ref]any),
		log:       logger.Nop{},
		tracer:    otel.Tracer(tracerName),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the instance of ref, creating it and its dependencies on
// first use.
func (r *Resolver) Resolve(ctx context.Context, ref *api.Ref) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(ctx, ref, nil)
}

// Get resolves ref and asserts the instance to T.
func Get[T any](ctx context.Context, r *Resolver, ref *api.Ref) (T, error) {
	var zero T
	v, err := r.Resolve(ctx, ref)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %T", ErrTypeMismatch, ref.ID(), v, zero)
	}
	return t, nil
}

func (r *Resolver) resolve(ctx context.Context, ref *api.Ref, path []*api.Ref) (inst any, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	if v, ok := r.instances[ref]; ok {
		r.bus.Publish(events.NewResolution(ref.ID(), time.Since(start), true, nil))
		return v, nil
	}
	for _, p := range path {
		if p == ref {
			cycle := append(append([]*api.Ref{}, path...), ref)
			return nil, &CycleError{Path: cycle}
		}
	}

	ctx, span := r.tracer.Start(ctx, "resolve "+ref.ID(), trace.WithAttributes(
		attribute.String("api.id", ref.ID()),
		attribute.Int("api.depth", len(path)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.log.Warnf("resolve %s: %v", ref.ID(), err)
		}
		span.End()
		r.bus.Publish(events.NewResolution(ref.ID(), time.Since(start), false, err))
	}()

	f, ok := r.holder.Get(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref.ID())
	}

	next := append(append(make([]*api.Ref, 0, len(path)+1), path...), ref)
	deps := make(api.Deps, len(f.Deps))
	for name, dep := range f.Deps {
		v, err := r.resolve(ctx, dep, next)
		if err != nil {
			return nil, fmt.Errorf("dependency %q of %s: %w", name, ref.ID(), err)
		}
		deps[name] = v
	}

	inst, err = f.Create(deps)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", ref.ID(), err)
	}
	r.instances[ref] = inst
	r.log.Debugf("instantiated %s", ref.ID())
	return inst, nil
}

// Validate checks that every API in refs and all of their transitive
// dependencies have a factory in holder and that no dependency cycle exists.
// Nothing is instantiated.
func Validate(holder api.Holder, refs []*api.Ref) error {
	done := make(map[*api.Ref]bool)
	var visit func(ref *api.Ref, path []*api.Ref) error
	visit = func(ref *api.Ref, path []*api.Ref) error {
		if done[ref] {
			return nil
		}
		for _, p := range path {
			if p == ref {
				return &CycleError{Path: append(append([]*api.Ref{}, path...), ref)}
			}
		}
		f, ok := holder.Get(ref)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, ref.ID())
		}
		next := append(append(make([]*api.Ref, 0, len(path)+1), path...), ref)
		for name, dep := range f.Deps {
			if err := visit(dep, next); err != nil {
				return fmt.Errorf("dependency %q of %s: %w", name, ref.ID(), err)
			}
		}
		done[ref] = true
		return nil
	}
	for _, ref := range refs {
		if err := visit(ref, nil); err != nil {
			return err
		}
	}
	return nil
}
