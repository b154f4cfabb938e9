package apis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/apireg/core/logger"
)

func TestConfigAPI(t *testing.T) {
	cfg, err := NewConfig(map[string]any{
		"app": map[string]any{"title": "demo", "port": 8080, "debug": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.String("app.title"))
	assert.Equal(t, 8080, cfg.Int("app.port"))
	assert.True(t, cfg.Bool("app.debug"))
	assert.True(t, cfg.Exists("app.port"))
	assert.False(t, cfg.Exists("app.missing"))
	assert.ElementsMatch(t, []string{"app.title", "app.port", "app.debug"}, cfg.Keys())

	v, err := ConfigFactory(map[string]any{"a": "b"}).Create(nil)
	require.NoError(t, err)
	assert.Equal(t, "b", v.(ConfigAPI).String("a"))
}

func TestBusAlerts(t *testing.T) {
	alerts := NewBusAlerts()
	sub := alerts.Subscribe()
	alerts.Post(Alert{Message: "hi"})
	got := <-sub
	assert.Equal(t, "hi", got.Message)
	assert.Equal(t, SeverityInfo, got.Severity)
	alerts.Unsubscribe(sub)
	alerts.Close()
}

func TestLogAlertsSubscribeClosed(t *testing.T) {
	a := NewLogAlerts(logger.Nop{})
	a.Post(Alert{Message: "x", Severity: SeverityError})
	a.Post(Alert{Message: "y", Severity: SeverityWarning})
	_, ok := <-a.Subscribe()
	assert.False(t, ok)
}

func TestAlertingErrors(t *testing.T) {
	alerts := NewBusAlerts()
	sub := alerts.Subscribe()
	errs := NewAlertingErrors(logger.Nop{}, alerts)

	errs.Post(errors.New("hidden"), ErrorContext{Hidden: true})
	errs.Post(nil, ErrorContext{})
	errs.Post(errors.New("visible"), ErrorContext{})

	got := <-sub
	assert.Equal(t, "visible", got.Message)
	assert.Equal(t, SeverityError, got.Severity)
}

type recordingMonitor struct {
	errs []error
	tags []map[string]string
}

func (m *recordingMonitor) CaptureException(err error, tags map[string]string) {
	m.errs = append(m.errs, err)
	m.tags = append(m.tags, tags)
}

func (m *recordingMonitor) Flush(time.Duration) {}

func TestMonitoredErrors(t *testing.T) {
	mon := &recordingMonitor{}
	errs := NewMonitoredErrors(logger.Nop{}, mon)
	errs.Post(nil, ErrorContext{})
	errs.Post(errors.New("lost"), ErrorContext{Hidden: true})

	require.Len(t, mon.errs, 1)
	assert.EqualError(t, mon.errs[0], "lost")
	assert.Equal(t, "true", mon.tags[0]["hidden"])
}

func TestLocalFeatureFlags(t *testing.T) {
	seed := map[string]bool{"beta": true}
	flags := NewLocalFeatureFlags(seed)
	seed["beta"] = false
	assert.True(t, flags.IsActive("beta"))
	assert.False(t, flags.IsActive("unknown"))

	flags.Set("gamma", true)
	snapshot := flags.Flags()
	snapshot["gamma"] = false
	assert.True(t, flags.IsActive("gamma"))
	assert.Equal(t, map[string]bool{"beta": true, "gamma": true}, flags.Flags())
}

func TestBuiltinRefsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Builtin() {
		assert.False(t, seen[r.ID()], r.ID())
		seen[r.ID()] = true
	}
	assert.Len(t, seen, 5)
}
