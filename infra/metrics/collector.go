package metrics

import (
	"context"

	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/core/logger"
	coremetrics "github.com/kilianp07/apireg/core/metrics"
	"github.com/kilianp07/apireg/internal/eventbus"
)

// StartEventCollector subscribes to the bus and forwards registry events to
// sink. It stops when ctx is canceled or the bus is closed; the returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.Nop{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				var err error
				switch e := ev.(type) {
				case events.Registration:
					err = sink.RecordRegistration(e)
				case events.Resolution:
					err = sink.RecordResolution(e)
				}
				if err != nil {
					log.Warnf("record %s event: %v", ev.EventKind(), err)
				}
			}
		}
	}()
	return done
}
