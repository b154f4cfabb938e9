package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/internal/eventbus"
)

type countingSink struct {
	mu            sync.Mutex
	registrations int
	resolutions   int
}

func (c *countingSink) RecordRegistration(events.Registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations++
	return nil
}

func (c *countingSink) RecordResolution(events.Resolution) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolutions++
	return nil
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New[events.Event]()
	sink := &countingSink{}
	done := StartEventCollector(context.Background(), bus, sink, nil)

	bus.Publish(events.NewRegistration("core.config", "static", 100, true, ""))
	bus.Publish(events.NewResolution("core.config", time.Millisecond, false, nil))
	bus.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after bus close")
	}
	assert.Equal(t, 1, sink.registrations)
	assert.Equal(t, 1, sink.resolutions)
}

func TestStartEventCollector_NilInputs(t *testing.T) {
	done := StartEventCollector(context.Background(), nil, nil, nil)
	_, open := <-done
	assert.False(t, open)
}
