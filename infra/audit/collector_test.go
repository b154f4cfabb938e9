package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreaudit "github.com/kilianp07/apireg/core/audit"
	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/internal/eventbus"
)

func TestStartCollector(t *testing.T) {
	store, err := NewJSONLStore(t.TempDir() + "/audit.jsonl")
	require.NoError(t, err)
	bus := eventbus.New[events.Event]()
	done := StartCollector(context.Background(), bus, store, nil)

	bus.Publish(events.NewRegistration("core.config", "static", 100, true, ""))
	bus.Publish(events.NewResolution("core.config", time.Millisecond, false, nil))
	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}

	recs, err := store.Query(context.Background(), coreaudit.Query{API: "core.config"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, events.KindRegistration, recs[0].Kind)
	assert.Equal(t, events.KindResolution, recs[1].Kind)
}

func TestStartCollector_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := eventbus.New[events.Event]()
	done := StartCollector(ctx, bus, NopStore{}, nil)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
	assert.Equal(t, 0, bus.Subscribers())
}
