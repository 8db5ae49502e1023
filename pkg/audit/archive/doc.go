// Package archive provides a queryable SQLite mirror of the audit trail.
//
// The append-only line-format log remains the source of truth (the circuit
// breaker reads it directly) while the archive serves structured queries
// and retention. The archive is rebuilt from the log at startup and kept
// current by mirroring each new record; rows pruned by retention disappear
// from queries but never from the log itself.
package archive
