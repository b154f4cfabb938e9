// Package api holds the priority-scoped factory registry.
//
// An API is named by a *Ref. Refs are compared by identity: two refs created
// with the same ID are different APIs. A Factory knows which API it builds and
// which other APIs it needs.
//
// Factories are registered in a Scope. Each scope has a fixed priority and a
// registration only replaces an existing one when its priority is strictly
// higher:
//
//	reg := api.NewRegistry()
//	reg.Register(api.ScopeDefault, defaultFlags) // true
//	reg.Register(api.ScopeApp, appFlags)         // true, 50 > 10
//	reg.Register(api.ScopeDefault, otherFlags)   // false, 10 < 50
//	f, ok := reg.Get(FlagsRef)                   // appFlags, true
package api
