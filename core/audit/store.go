package audit

import (
	"context"
	"time"

	"github.com/kilianp07/apireg/core/events"
)

// Record is one persisted registry event.
type Record struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      events.Kind `json:"kind"`
	API       string      `json:"api"`
	// OK is the accepted flag for registrations and success for resolutions.
	OK         bool    `json:"ok"`
	Scope      string  `json:"scope,omitempty"`
	Priority   int     `json:"priority,omitempty"`
	Previous   string  `json:"previous,omitempty"`
	Cached     bool    `json:"cached,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// FromEvent converts a bus event into a Record. Unknown events yield false.
func FromEvent(ev events.Event) (Record, bool) {
	switch e := ev.(type) {
	case events.Registration:
		return Record{
			ID:        e.ID,
			Timestamp: e.Time,
			Kind:      events.KindRegistration,
			API:       e.API,
			OK:        e.Accepted,
			Scope:     e.Scope,
			Priority:  e.Priority,
			Previous:  e.Previous,
		}, true
	case events.Resolution:
		return Record{
			ID:         e.ID,
			Timestamp:  e.Time,
			Kind:       events.KindResolution,
			API:        e.API,
			OK:         !e.Failed(),
			Cached:     e.Cached,
			DurationMS: float64(e.Duration.Microseconds()) / 1000,
			Error:      e.Err,
		}, true
	}
	return Record{}, false
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start time.Time
	End   time.Time
	API   string
	Kind  events.Kind
	OK    *bool
}

// Matches reports whether r passes every filter of q.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.API != "" && r.API != q.API {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.OK != nil && r.OK != *q.OK {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
