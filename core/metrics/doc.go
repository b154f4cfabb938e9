// Package metrics defines the recorder interfaces used to observe the
// registry. Sinks such as PromSink and InfluxSink (infra/metrics) record
// registration and resolution events; NewMetricsSink builds them from
// configuration and combines several into a MultiSink.
package metrics
