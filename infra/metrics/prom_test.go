package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/apireg/core/events"
)

func TestPromSink_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordRegistration(events.NewRegistration("core.config", "static", 100, true, "")))
	require.NoError(t, sink.RecordRegistration(events.NewRegistration("core.config", "app", 50, false, "static")))
	require.NoError(t, sink.RecordResolution(events.NewResolution("core.config", time.Millisecond, false, nil)))
	require.NoError(t, sink.RecordResolution(events.NewResolution("core.config", 0, true, nil)))
	require.NoError(t, sink.RecordRegisteredAPIs(3))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.registrations.WithLabelValues("core.config", "static", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.registrations.WithLabelValues("core.config", "app", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.resolutions.WithLabelValues("core.config", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.resolutions.WithLabelValues("core.config", "cached")))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.registered))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.latency))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	assert.Same(t, a.registrations, b.registrations)
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordRegistration(events.NewRegistration("core.alert", "default", 10, true, "")))

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `apireg_registrations_total{accepted="true",api="core.alert",scope="default"} 1`)
}
