// Package events defines the events published on the registry bus. The
// registry emits a Registration for every Register call and the resolver
// emits a Resolution for every instantiation attempt. Collectors in
// infra/metrics and infra/audit consume them.
package events
