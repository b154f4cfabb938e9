package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	auditapi "github.com/kilianp07/apireg/api/audit"
	"github.com/kilianp07/apireg/apis"
	"github.com/kilianp07/apireg/app/plugins"
	"github.com/kilianp07/apireg/config"
	"github.com/kilianp07/apireg/core/api"
	coreaudit "github.com/kilianp07/apireg/core/audit"
	"github.com/kilianp07/apireg/core/events"
	coremetrics "github.com/kilianp07/apireg/core/metrics"
	"github.com/kilianp07/apireg/core/resolver"
	"github.com/kilianp07/apireg/infra/audit"
	"github.com/kilianp07/apireg/infra/logger"
	"github.com/kilianp07/apireg/infra/metrics"
	"github.com/kilianp07/apireg/infra/tracing"
	"github.com/kilianp07/apireg/internal/eventbus"
)

const busBuffer = 256

// Service owns a registry populated from plugins and configuration, and the
// resolver serving it.
type Service struct {
	Registry *api.Registry
	Resolver *resolver.Resolver
	Audit    coreaudit.Store

	cfg        *config.Config
	catalog    *plugins.Catalog
	bus        *eventbus.Bus[events.Event]
	sink       coremetrics.MetricsSink
	tracing    *tracing.Provider
	log        logger.Logger
	traceOut   io.Writer
	collectors []<-chan struct{}
}

// Option customizes a Service.
type Option func(*Service)

// WithCatalog replaces the built-in plugin catalog.
func WithCatalog(c *plugins.Catalog) Option {
	return func(s *Service) { s.catalog = c }
}

// WithLogger replaces the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithTraceOutput sets where the stdout exporter writes spans. Spans go to
// stderr by default so they never mix with command output.
func WithTraceOutput(w io.Writer) Option {
	return func(s *Service) { s.traceOut = w }
}

// New creates a Service from the configuration. Registration order is static
// config, plugin defaults, then configured overrides.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{cfg: cfg, catalog: plugins.Builtin, traceOut: os.Stderr}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.New("service")
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := audit.New(cfg.Audit)
	if err != nil {
		coremetrics.Close(sink)
		return nil, fmt.Errorf("audit store: %w", err)
	}
	tp, err := tracing.New(cfg.Tracing, s.traceOut)
	if err != nil {
		coremetrics.Close(sink)
		_ = store.Close()
		return nil, fmt.Errorf("tracing: %w", err)
	}
	if cfg.Tracing.Enabled {
		tp.Install()
	}
	s.sink, s.Audit, s.tracing = sink, store, tp

	s.bus = eventbus.NewWithBuffer[events.Event](busBuffer)
	ctx := context.Background()
	s.collectors = append(s.collectors,
		metrics.StartEventCollector(ctx, s.bus, sink, s.log),
		audit.StartCollector(ctx, s.bus, store, s.log),
	)

	s.Registry = api.NewRegistry(api.WithLogger(logger.New("registry")), api.WithEvents(s.bus))
	s.Resolver = resolver.New(s.Registry,
		resolver.WithLogger(logger.New("resolver")),
		resolver.WithEvents(s.bus),
		resolver.WithTracer(tp.Tracer("github.com/kilianp07/apireg/core/resolver")),
	)

	if err := s.populate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	if rec, ok := sink.(coremetrics.RegistrySizeRecorder); ok {
		if err := rec.RecordRegisteredAPIs(s.Registry.Len()); err != nil {
			s.log.Warnf("record registry size: %v", err)
		}
	}
	if err := resolver.Validate(s.Registry, s.APIs()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("validate apis: %w", err)
	}
	return s, nil
}

func (s *Service) populate() error {
	s.Registry.Register(api.ScopeStatic, apis.ConfigFactory(s.cfg.Settings))

	selected, err := s.selectedPlugins()
	if err != nil {
		return err
	}
	for _, p := range selected {
		for _, f := range p.Factories {
			if !s.Registry.Register(api.ScopeDefault, f) {
				s.log.Warnf("plugin %s: %s already provided", p.ID, f.API.ID())
			}
		}
	}

	for _, o := range s.cfg.APIs.Overrides {
		scope, err := o.ScopeOrDefault()
		if err != nil {
			return err
		}
		f, err := s.catalog.NewImplementation(o.Module())
		if err != nil {
			return fmt.Errorf("override %s: %w", o.Type, err)
		}
		if s.Registry.Register(scope, f) {
			s.log.Infof("override %s registered for %s in scope %s", o.Type, f.API.ID(), scope)
		} else {
			s.log.Warnf("override %s ignored: %s is held by a scope >= %s", o.Type, f.API.ID(), scope)
		}
	}
	return nil
}

func (s *Service) selectedPlugins() ([]plugins.Plugin, error) {
	if len(s.cfg.APIs.Plugins) == 0 {
		return s.catalog.Plugins(), nil
	}
	out := make([]plugins.Plugin, 0, len(s.cfg.APIs.Plugins))
	for _, id := range s.cfg.APIs.Plugins {
		p, ok := s.catalog.Plugin(id)
		if !ok {
			return nil, fmt.Errorf("unknown plugin %s", id)
		}
		out = append(out, p)
	}
	return out, nil
}

// APIs returns every registered ref ordered by id.
func (s *Service) APIs() []*api.Ref {
	entries := s.Registry.Entries()
	refs := make([]*api.Ref, len(entries))
	for i, e := range entries {
		refs[i] = e.API
	}
	return refs
}

// Lookup finds the registered ref with the given id.
func (s *Service) Lookup(id string) (*api.Ref, error) {
	var found *api.Ref
	for _, e := range s.Registry.Entries() {
		if e.API.ID() != id {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("ambiguous api id %s", id)
		}
		found = e.API
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", resolver.ErrNotFound, id)
	}
	return found, nil
}

// Resolve instantiates ref.
func (s *Service) Resolve(ctx context.Context, ref *api.Ref) (any, error) {
	return s.Resolver.Resolve(ctx, ref)
}

// ResolveAll instantiates every registered API and returns the joined errors.
func (s *Service) ResolveAll(ctx context.Context) error {
	var errs []error
	for _, ref := range s.APIs() {
		if _, err := s.Resolver.Resolve(ctx, ref); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run resolves every API, serves Prometheus metrics when configured and
// blocks until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.ResolveAll(ctx); err != nil {
		return err
	}
	s.log.Infof("%d apis ready", s.Registry.Len())
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			routes := map[string]http.Handler{
				auditapi.Path: auditapi.NewRecordsHandler(s.Audit, s.cfg.Audit.HTTPToken),
			}
			if err := metrics.StartPromServer(ctx, port, s.log, routes); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close stops the collectors after they drained pending events, then closes
// the metrics sink, the audit store and the tracer provider.
func (s *Service) Close() error {
	s.bus.Close()
	for _, done := range s.collectors {
		<-done
	}
	coremetrics.Close(s.sink)
	var errs []error
	if err := s.Audit.Close(); err != nil {
		errs = append(errs, fmt.Errorf("audit close: %w", err))
	}
	if err := s.tracing.Shutdown(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}
	return errors.Join(errs...)
}
