// Package audit provides the append-only audit trail for change-lifecycle
// events (proposed, applied, reverted) and the readers that consume it.
//
// # Record Format
//
// Each event is one line in the audit log, a JSON-like object with fixed
// leading keys followed by the caller-supplied extra fields in lexicographic
// key order:
//
//	{"timestamp":"2026-01-02T15:04:05Z","action":"applied","change_id":"c-1","success":"true","summary":"tune pathfinding"}
//
// The key order of extra fields is part of the on-disk format; readers and
// external tooling depend on it, so it must not change. Values are written
// as raw text inside quotes with no escaping: callers must not pass values
// containing quote characters or control characters, or the record becomes
// unparsable. Treat this as a custom line format, not general JSON; a real
// serializer with escaping would be a breaking format version bump.
//
// # Read Paths
//
// Reader offers two read operations built on a tolerant, order-independent
// field extractor:
//
//   - RecentEntries reconstructs typed entries for humans and tooling.
//   - CountFailedDeployments is the cheap raw-substring scan the circuit
//     breaker consumes. It counts across the entire log, not a time window.
//
// Both degrade gracefully: an unopenable log reads as empty.
//
// # Concurrency
//
// Writes are not guarded by any lock. If multiple processes or threads
// append to the same log concurrently, partial-line interleaving is a real
// risk; run with a single writer.
package audit
