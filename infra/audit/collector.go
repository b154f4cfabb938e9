package audit

import (
	"context"

	coreaudit "github.com/kilianp07/apireg/core/audit"
	"github.com/kilianp07/apireg/core/events"
	"github.com/kilianp07/apireg/core/logger"
	"github.com/kilianp07/apireg/internal/eventbus"
)

// StartCollector subscribes to the bus and appends every event to store. It
// stops when ctx is canceled or the bus is closed; the returned channel is
// closed once it has exited.
func StartCollector(ctx context.Context, bus *eventbus.Bus[events.Event], store coreaudit.Store, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || store == nil {
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
				rec, ok := coreaudit.FromEvent(ev)
				if !ok {
					continue
				}
				if err := store.Append(context.WithoutCancel(ctx), rec); err != nil {
					log.Errorf("audit append %s: %v", rec.ID, err)
				}
			}
		}
	}()
	return done
}
