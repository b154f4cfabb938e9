package apis

import (
	"strconv"

	"github.com/kilianp07/apireg/core/logger"
	"github.com/kilianp07/apireg/core/monitoring"
)

// ErrorContext qualifies a posted error.
type ErrorContext struct {
	// Hidden errors are logged but not raised as alerts.
	Hidden bool
}

// ErrorAPI reports errors that were not handled by the caller.
type ErrorAPI interface {
	Post(err error, ctx ErrorContext)
}

// AlertingErrors logs errors and raises an error alert for visible ones.
type AlertingErrors struct {
	log    logger.Logger
	alerts AlertAPI
}

// NewAlertingErrors creates an ErrorAPI.
func NewAlertingErrors(log logger.Logger, alerts AlertAPI) *AlertingErrors {
	return &AlertingErrors{log: log, alerts: alerts}
}

func (e *AlertingErrors) Post(err error, ctx ErrorContext) {
	if err == nil {
		return
	}
	e.log.Errorf("unhandled error: %v", err)
	if !ctx.Hidden {
		e.alerts.Post(Alert{Message: err.Error(), Severity: SeverityError})
	}
}

// MonitoredErrors logs errors and forwards every one of them to a Monitor.
type MonitoredErrors struct {
	log logger.Logger
	mon monitoring.Monitor
}

func NewMonitoredErrors(log logger.Logger, mon monitoring.Monitor) *MonitoredErrors {
	return &MonitoredErrors{log: log, mon: mon}
}

func (e *MonitoredErrors) Post(err error, ctx ErrorContext) {
	if err == nil {
		return
	}
	e.log.Errorf("unhandled error: %v", err)
	e.mon.CaptureException(err, map[string]string{"hidden": strconv.FormatBool(ctx.Hidden)})
}
