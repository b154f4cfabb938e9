package api

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRef is returned by NewRef for malformed IDs.
var ErrInvalidRef = errors.New("invalid api ref id")

var wordPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// Ref identifies an API. Always use it as *Ref: the pointer is the identity.
type Ref struct {
	id string
}

// NewRef creates a new API identifier. The id is made of dot separated
// segments, each segment being dash separated lowercase words starting with a
// letter, e.g. "core.config" or "plugin.feature-flags".
func NewRef(id string) (*Ref, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return &Ref{id: id}, nil
}

// MustRef is like NewRef but panics on an invalid id. Intended for
// package-level ref declarations.
func MustRef(id string) *Ref {
	r, err := NewRef(id)
	if err != nil {
		panic(err)
	}
	return r
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRef)
	}
	for _, segment := range strings.Split(id, ".") {
		for _, word := range strings.Split(segment, "-") {
			if !wordPattern.MatchString(word) {
				return fmt.Errorf("%w: %q", ErrInvalidRef, id)
			}
		}
	}
	return nil
}

// ID returns the identifier the ref was created with.
func (r *Ref) ID() string {
	if r == nil {
		return ""
	}
	return r.id
}

func (r *Ref) String() string { return "apiRef{" + r.ID() + "}" }
