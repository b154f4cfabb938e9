package plugins

import (
	"fmt"

	"github.com/kilianp07/apireg/apis"
	"github.com/kilianp07/apireg/core/api"
	"github.com/kilianp07/apireg/core/factory"
	"github.com/kilianp07/apireg/core/logger"
	infralogger "github.com/kilianp07/apireg/infra/logger"
	"github.com/kilianp07/apireg/infra/monitoring"
)

const (
	PluginCore         = "core"
	PluginFeatureFlags = "featureflags"
)

func init() {
	mustRegister(Builtin.Register(Plugin{
		ID: PluginCore,
		Factories: []*api.Factory{
			{
				API: apis.LoggerRef,
				Create: func(api.Deps) (any, error) {
					return infralogger.New("app"), nil
				},
			},
			{
				API: apis.AlertRef,
				Create: func(api.Deps) (any, error) {
					return apis.NewBusAlerts(), nil
				},
			},
			{
				API:  apis.ErrorRef,
				Deps: map[string]*api.Ref{"logger": apis.LoggerRef, "alerts": apis.AlertRef},
				Create: func(deps api.Deps) (any, error) {
					log, err := api.Dep[logger.Logger](deps, "logger")
					if err != nil {
						return nil, err
					}
					alerts, err := api.Dep[apis.AlertAPI](deps, "alerts")
					if err != nil {
						return nil, err
					}
					return apis.NewAlertingErrors(log, alerts), nil
				},
			},
		},
	}))

	mustRegister(Builtin.Register(Plugin{
		ID: PluginFeatureFlags,
		Factories: []*api.Factory{{
			API: apis.FeatureFlagsRef,
			Create: func(api.Deps) (any, error) {
				return apis.NewLocalFeatureFlags(nil), nil
			},
		}},
	}))

	mustRegister(Builtin.RegisterImplementation("featureflags.configured", func(conf map[string]any) (*api.Factory, error) {
		var c struct {
			Flags map[string]bool `json:"flags"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return &api.Factory{
			API: apis.FeatureFlagsRef,
			Create: func(api.Deps) (any, error) {
				return apis.NewLocalFeatureFlags(c.Flags), nil
			},
		}, nil
	}))

	mustRegister(Builtin.RegisterImplementation("alert.log", func(conf map[string]any) (*api.Factory, error) {
		if err := factory.Decode(conf, &struct{}{}); err != nil {
			return nil, err
		}
		return &api.Factory{
			API:  apis.AlertRef,
			Deps: map[string]*api.Ref{"logger": apis.LoggerRef},
			Create: func(deps api.Deps) (any, error) {
				log, err := api.Dep[logger.Logger](deps, "logger")
				if err != nil {
					return nil, err
				}
				return apis.NewLogAlerts(log), nil
			},
		}, nil
	}))

	mustRegister(Builtin.RegisterImplementation("error.sentry", func(conf map[string]any) (*api.Factory, error) {
		var c monitoring.SentryConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return &api.Factory{
			API:  apis.ErrorRef,
			Deps: map[string]*api.Ref{"logger": apis.LoggerRef},
			Create: func(deps api.Deps) (any, error) {
				log, err := api.Dep[logger.Logger](deps, "logger")
				if err != nil {
					return nil, err
				}
				mon, err := monitoring.NewSentryMonitor(c)
				if err != nil {
					return nil, fmt.Errorf("sentry: %w", err)
				}
				return apis.NewMonitoredErrors(log, mon), nil
			},
		}, nil
	}))

	mustRegister(Builtin.RegisterImplementation("logger.zerolog", func(conf map[string]any) (*api.Factory, error) {
		var c struct {
			Component string `json:"component"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Component == "" {
			c.Component = "app"
		}
		return &api.Factory{
			API: apis.LoggerRef,
			Create: func(api.Deps) (any, error) {
				return infralogger.New(c.Component), nil
			},
		}, nil
	}))
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
