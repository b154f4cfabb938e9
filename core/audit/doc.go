// Package audit defines the audit trail of registry activity: one Record per
// registration attempt or API resolution, persisted by a Store implemented in
// infra/audit.
package audit
