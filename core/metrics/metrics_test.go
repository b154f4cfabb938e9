package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/core/factory"
)

type recordSink struct {
	count int
	size  int
	err   error
}

func (r *recordSink) RecordRegistration(events.Registration) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordResolution(events.Resolution) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordRegisteredAPIs(n int) error {
	r.size = n
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2, NopSink{})
	require.NoError(t, m.RecordRegistration(events.Registration{}))
	require.NoError(t, m.RecordResolution(events.Resolution{}))
	require.NoError(t, m.RecordRegisteredAPIs(4))
	assert.Equal(t, 2, s1.count)
	assert.Equal(t, 2, s2.count)
	assert.Equal(t, 4, s2.size)
}

func TestMultiSink_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	assert.ErrorIs(t, m.RecordRegistration(events.Registration{}), boom)
	assert.Equal(t, 0, s2.count)
}

func TestNewMetricsSink(t *testing.T) {
	require.NoError(t, RegisterMetricsSink("test-record", func(map[string]any) (MetricsSink, error) {
		return &recordSink{}, nil
	}))

	s, err := NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "test-record"}})
	require.NoError(t, err)
	assert.IsType(t, &recordSink{}, s)

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "test-record"}})
	require.NoError(t, err)
	multi, ok := s.(*MultiSink)
	require.True(t, ok)
	assert.Len(t, multi.Sinks, 2)

	_, err = NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}, {Type: "test-record"}})
	assert.Error(t, err)
	assert.Contains(t, SinkTypes(), "test-record")
}

type closingSink struct {
	NopSink
	closed int
}

func (c *closingSink) Close() { c.closed++ }

func TestMultiSink_Close(t *testing.T) {
	c1, c2 := &closingSink{}, &closingSink{}
	m := NewMultiSink(c1, NopSink{}, c2)
	Close(m)
	assert.Equal(t, 1, c1.closed)
	assert.Equal(t, 1, c2.closed)
	Close(NopSink{})
}

var builtClosing []*closingSink

func TestNewMetricsSink_ClosesBuiltSinksOnError(t *testing.T) {
	builtClosing = nil
	if !sinkRegistry.Has("test-closing") {
		require.NoError(t, RegisterMetricsSink("test-closing", func(map[string]any) (MetricsSink, error) {
			s := &closingSink{}
			builtClosing = append(builtClosing, s)
			return s, nil
		}))
	}

	_, err := NewMetricsSink([]factory.ModuleConfig{{Type: "test-closing"}, {Type: "test-closing"}, {Type: "missing"}})
	require.ErrorContains(t, err, "metrics sink 2")
	require.Len(t, builtClosing, 2)
	for _, s := range builtClosing {
		assert.Equal(t, 1, s.closed)
	}
}
