package apis

import "github.com/kilianp07/apireg/core/api"

var (
	// ConfigRef is the read-only application configuration. Registered in
	// the static scope.
	ConfigRef = api.MustRef("core.config")
	// LoggerRef yields a logger.Logger.
	LoggerRef = api.MustRef("core.logger")
	// AlertRef yields an AlertAPI.
	AlertRef = api.MustRef("core.alert")
	// ErrorRef yields an ErrorAPI.
	ErrorRef = api.MustRef("core.error")
	// FeatureFlagsRef yields a FeatureFlagsAPI.
	FeatureFlagsRef = api.MustRef("core.feature-flags")
)

// Builtin lists every ref declared by this package.
func Builtin() []*api.Ref {
	return []*api.Ref{ConfigRef, LoggerRef, AlertRef, ErrorRef, FeatureFlagsRef}
}
