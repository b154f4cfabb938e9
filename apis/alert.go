package apis

import (
	"github.com/kilianp07/apireg/core/logger"
	"github.com/kilianp07/apireg/internal/eventbus"
)

// Severity of an alert.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Alert is a message meant for the operator.
type Alert struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// AlertAPI posts alerts and lets consumers follow them.
type AlertAPI interface {
	Post(a Alert)
	// Subscribe returns a channel of future alerts. Implementations without a
	// feed return a closed channel.
	Subscribe() <-chan Alert
}

// BusAlerts fans alerts out to subscribers.
type BusAlerts struct {
	bus *eventbus.Bus[Alert]
}

// NewBusAlerts creates an AlertAPI backed by an event bus.
func NewBusAlerts() *BusAlerts {
	return &BusAlerts{bus: eventbus.New[Alert]()}
}

func (a *BusAlerts) Post(al Alert) {
	if al.Severity == "" {
		al.Severity = SeverityInfo
	}
	a.bus.Publish(al)
}

func (a *BusAlerts) Subscribe() <-chan Alert { return a.bus.Subscribe() }

// Unsubscribe stops delivery to ch.
func (a *BusAlerts) Unsubscribe(ch <-chan Alert) { a.bus.Unsubscribe(ch) }

// Close closes every subscription.
func (a *BusAlerts) Close() { a.bus.Close() }

// LogAlerts writes alerts to a logger.
type LogAlerts struct {
	log logger.Logger
}

// NewLogAlerts creates an AlertAPI writing to log.
func NewLogAlerts(log logger.Logger) *LogAlerts { return &LogAlerts{log: log} }

func (a *LogAlerts) Post(al Alert) {
	switch al.Severity {
	case SeverityError:
		a.log.Errorf("alert: %s", al.Message)
	case SeverityWarning:
		a.log.Warnf("alert: %s", al.Message)
	default:
		a.log.Infof("alert: %s", al.Message)
	}
}

func (a *LogAlerts) Subscribe() <-chan Alert {
	ch := make(chan Alert)
	close(ch)
	return ch
}
