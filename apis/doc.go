// Package apis declares the built-in APIs: their refs, their interfaces and
// the implementations shipped with apireg. Plugins register these
// implementations in the default scope; configuration can override them.
package apis
