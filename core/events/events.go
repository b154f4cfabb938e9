package events

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes event types in stores and metrics.
type Kind string

const (
	KindRegistration Kind = "registration"
	KindResolution   Kind = "resolution"
)

// Event is implemented by every event published on the bus.
type Event interface {
	EventID() string
	EventKind() Kind
	APIID() string
	OccurredAt() time.Time
}

// Registration records the outcome of one Register call.
type Registration struct {
	ID       string
	API      string
	Scope    string
	Priority int
	Accepted bool
	// Previous is the scope of the entry held before the call, empty if none.
	Previous string
	Time     time.Time
}

// NewRegistration stamps a Registration with a fresh id and the current time.
func NewRegistration(api, scope string, priority int, accepted bool, previous string) Registration {
	return Registration{
		ID:       uuid.NewString(),
		API:      api,
		Scope:    scope,
		Priority: priority,
		Accepted: accepted,
		Previous: previous,
		Time:     time.Now(),
	}
}

func (e Registration) EventID() string       { return e.ID }
func (e Registration) EventKind() Kind       { return KindRegistration }
func (e Registration) APIID() string         { return e.API }
func (e Registration) OccurredAt() time.Time { return e.Time }

// Resolution records one attempt to instantiate an API.
type Resolution struct {
	ID       string
	API      string
	Duration time.Duration
	// Cached is set when the instance came from the resolver cache.
	Cached bool
	Err    string
	Time   time.Time
}

// NewResolution stamps a Resolution with a fresh id and the current time.
func NewResolution(api string, d time.Duration, cached bool, err error) Resolution {
	ev := Resolution{
		ID:       uuid.NewString(),
		API:      api,
		Duration: d,
		Cached:   cached,
		Time:     time.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
	}
	return ev
}

func (e Resolution) EventID() string       { return e.ID }
func (e Resolution) EventKind() Kind       { return KindResolution }
func (e Resolution) APIID() string         { return e.API }
func (e Resolution) OccurredAt() time.Time { return e.Time }

// Failed reports whether the resolution returned an error.
func (e Resolution) Failed() bool { return e.Err != "" }
