// Package factory provides a small generic registry of named constructors.
// Modules are described by a type string and a map of raw settings; the
// constructor decodes the settings into a typed struct with Decode.
//
// apireg uses it for metrics sinks and for the named implementations that
// configuration can register as overrides:
//
//	impls := factory.NewRegistry[*api.Factory]()
//	impls.Register("featureflags.configured", func(conf map[string]any) (*api.Factory, error) {
//	    var c struct{ Flags map[string]bool `json:"flags"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return api.Instance(apis.FeatureFlagsRef, apis.NewLocalFeatureFlags(c.Flags)), nil
//	})
package factory
