package resolver

import (
	"errors"
	"strings"

	"github.com/kilianp07/apireg/core/api"
)

var (
	// ErrNotFound is returned when no factory is registered for an API.
	ErrNotFound = errors.New("no factory registered")
	// ErrTypeMismatch is returned by Get when the instance is not of the requested type.
	ErrTypeMismatch = errors.New("api instance type mismatch")
)

// CycleError reports a circular dependency. Path starts and ends with the
// same API.
type CycleError struct {
	Path []*api.Ref
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Path))
	for i, r := range e.Path {
		ids[i] = r.ID()
	}
	return "circular api dependency: " + strings.Join(ids, " -> ")
}
