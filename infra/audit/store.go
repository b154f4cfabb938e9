package audit

import (
	"context"
	"fmt"

	coreaudit "github.com/kilianp07/apireg/core/audit"
)

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, coreaudit.Record) error { return nil }
func (NopStore) Query(context.Context, coreaudit.Query) ([]coreaudit.Record, error) {
	return nil, nil
}
func (NopStore) Close() error { return nil }

// New opens the store selected by cfg. Call cfg.SetDefaults first.
func New(cfg coreaudit.Config) (coreaudit.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case coreaudit.BackendNone:
		return NopStore{}, nil
	case coreaudit.BackendSQLite:
		return NewSQLiteStore(cfg.Path)
	case coreaudit.BackendJSONL:
		if cfg.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return NewJSONLStore(cfg.Path)
	}
	return nil, fmt.Errorf("unknown audit backend %s", cfg.Backend)
}
