package metrics

import "github.com/kilianp07/apireg/core/events"

// RegistrationRecorder records the outcome of factory registrations.
type RegistrationRecorder interface {
	RecordRegistration(ev events.Registration) error
}

// ResolutionRecorder records API instantiations.
type ResolutionRecorder interface {
	RecordResolution(ev events.Resolution) error
}

// MetricsSink is implemented by every sink.
type MetricsSink interface {
	RegistrationRecorder
	ResolutionRecorder
}

// RegistrySizeRecorder records the number of registered APIs.
type RegistrySizeRecorder interface {
	RecordRegisteredAPIs(n int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRegistration(events.Registration) error { return nil }
func (NopSink) RecordResolution(events.Resolution) error     { return nil }
func (NopSink) RecordRegisteredAPIs(int) error               { return nil }

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRegistration forwards to all sinks, returning the first error.
func (m *MultiSink) RecordRegistration(ev events.Registration) error {
	for _, s := range m.Sinks {
		if err := s.RecordRegistration(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordResolution forwards to all sinks, returning the first error.
func (m *MultiSink) RecordResolution(ev events.Resolution) error {
	for _, s := range m.Sinks {
		if err := s.RecordResolution(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRegisteredAPIs forwards to the sinks supporting it.
func (m *MultiSink) RecordRegisteredAPIs(n int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RegistrySizeRecorder); ok {
			if err := rec.RecordRegisteredAPIs(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close()
}

// Close releases s when it implements Closer.
func Close(s MetricsSink) {
	if c, ok := s.(Closer); ok {
		c.Close()
	}
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		Close(s)
	}
}
