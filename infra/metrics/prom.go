package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/apireg/core/events"
	coremetrics "github.com/kilianp07/apireg/core/metrics"
)

// PromSink records registry activity in Prometheus metrics.
type PromSink struct {
	registrations *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	registered    prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// Serve them with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics that
// are already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	registrations, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apireg_registrations_total",
		Help: "Factory registrations by api, scope and outcome",
	}, []string{"api", "scope", "accepted"}))
	if err != nil {
		return nil, err
	}
	resolutions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "apireg_resolutions_total",
		Help: "API resolutions by api and result",
	}, []string{"api", "result"}))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apireg_resolution_seconds",
		Help:    "Time spent instantiating an API and its dependencies",
		Buckets: prometheus.DefBuckets,
	}, []string{"api"}))
	if err != nil {
		return nil, err
	}
	registered, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "apireg_registered_apis",
		Help: "Number of APIs with a registered factory",
	}))
	if err != nil {
		return nil, err
	}
	return &PromSink{
		registrations: registrations,
		resolutions:   resolutions,
		latency:       latency,
		registered:    registered,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRegistration counts one Register call.
func (s *PromSink) RecordRegistration(ev events.Registration) error {
	s.registrations.WithLabelValues(ev.API, ev.Scope, strconv.FormatBool(ev.Accepted)).Inc()
	return nil
}

// RecordResolution counts a resolution; fresh instantiations also feed the
// latency histogram.
func (s *PromSink) RecordResolution(ev events.Resolution) error {
	result := "ok"
	switch {
	case ev.Failed():
		result = "error"
	case ev.Cached:
		result = "cached"
	}
	s.resolutions.WithLabelValues(ev.API, result).Inc()
	if !ev.Cached {
		s.latency.WithLabelValues(ev.API).Observe(ev.Duration.Seconds())
	}
	return nil
}

// RecordRegisteredAPIs sets the registered APIs gauge.
func (s *PromSink) RecordRegisteredAPIs(n int) error {
	s.registered.Set(float64(n))
	return nil
}

var _ coremetrics.RegistrySizeRecorder = (*PromSink)(nil)
