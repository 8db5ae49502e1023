// Package engine implements the four-stage enforcement decision engine.
//
// Given a policy snapshot and a proposed change's declared facts, Enforce
// runs the checks in strict order and short-circuits on the first failure
// (fail-fast, first reason wins):
//
//  1. Path writability: deny prefixes first, then require an allow match.
//  2. Network: skipped entirely when no outbound domain is declared.
//  3. Resource ceilings: CPU, RAM, runtime; strict greater-than denies.
//  4. Circuit breaker: emergency marker file, all-time failed-deployment
//     count from the audit trail, regression score threshold.
//
// Every verdict carries a short, specific reason string intended for logs
// and UI, never a fault. Enforcement is a pure point-in-time check with no
// retry logic; the gate validates requested numbers against policy, it does
// not meter real usage.
package engine
