package apis

import (
	"maps"
	"sync"
)

// FeatureFlagsAPI toggles optional features at runtime.
type FeatureFlagsAPI interface {
	IsActive(name string) bool
	Set(name string, active bool)
	// Flags returns a copy of every known flag.
	Flags() map[string]bool
}

// LocalFeatureFlags keeps flags in memory.
type LocalFeatureFlags struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewLocalFeatureFlags seeds the flags with initial, which is copied.
func NewLocalFeatureFlags(initial map[string]bool) *LocalFeatureFlags {
	flags := make(map[string]bool, len(initial))
	maps.Copy(flags, initial)
	return &LocalFeatureFlags{flags: flags}
}

func (f *LocalFeatureFlags) IsActive(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.flags[name]
}

func (f *LocalFeatureFlags) Set(name string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[name] = active
}

func (f *LocalFeatureFlags) Flags() map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return maps.Clone(f.flags)
}
