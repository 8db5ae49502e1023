// Package guard wires the policy parser, decision engine, and audit trail
// into the single façade callers interact with.
//
// A Guard owns exactly one ExecutionPolicy snapshot at a time. ReloadPolicy
// parses the policy source and atomically swaps the whole snapshot; a failed
// reload leaves the previously held snapshot (or the defaults, if none was
// ever loaded) authoritative. Enforcement reads the snapshot under a read
// lock, so a concurrent reload can never expose a half-updated policy.
//
// Lifecycle events are recorded regardless of verdict: callers record
// "proposed" when a change is suggested, "applied" with a success flag when
// it is deployed, and "reverted" with a reason when it is rolled back. The
// breaker state the engine derives feeds on exactly these records.
package guard
