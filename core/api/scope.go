package api

import "fmt"

// Scope is a registration tier. Higher scopes override lower ones.
type Scope string

const (
	// ScopeDefault is used by core and plugins.
	ScopeDefault Scope = "default"
	// ScopeApp is used by the application to override plugin defaults.
	ScopeApp Scope = "app"
	// ScopeStatic is for APIs that must never be overridden, such as config.
	ScopeStatic Scope = "static"
)

var scopePriority = map[Scope]int{
	ScopeDefault: 10,
	ScopeApp:     50,
	ScopeStatic:  100,
}

// Scopes lists all scopes in ascending priority.
func Scopes() []Scope { return []Scope{ScopeDefault, ScopeApp, ScopeStatic} }

// Priority returns the numeric priority of the scope and whether it is known.
func (s Scope) Priority() (int, bool) {
	p, ok := scopePriority[s]
	return p, ok
}

// Valid reports whether s is one of the defined scopes.
func (s Scope) Valid() bool {
	_, ok := scopePriority[s]
	return ok
}

func (s Scope) String() string { return string(s) }

// ParseScope converts a configuration value into a Scope.
func ParseScope(v string) (Scope, error) {
	s := Scope(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown scope %q", v)
	}
	return s, nil
}
