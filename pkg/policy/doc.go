// Package policy defines the execution policy model and the parser that
// builds it from the on-disk policy source.
//
// # Policy Model
//
// ExecutionPolicy is an immutable snapshot of every enforceable rule:
//
//   - Writable path allow/deny prefixes (deny wins over allow)
//   - Network allow-lists (domains and ports)
//   - Resource ceilings (CPU percent, RAM MB, runtime seconds)
//   - Circuit-breaker configuration (failed-deployment count, regression
//     threshold, emergency disable marker file)
//
// A snapshot is constructed once by Parse and never mutated afterwards;
// callers that need a new policy parse a new snapshot and swap it wholesale.
//
// # Policy Source Grammar
//
// The policy source is a line-oriented, whitespace- and comment-tolerant
// subset of YAML. Blank lines and lines starting with '#' are skipped.
// Section headers (autonomy:, network:, resource_limits:, cpu:, memory:,
// execution:, circuit_breakers:) reset the active list context. The
// ai_writable: block selects writable-path rules, where allow:/deny: choose
// the target list for subsequent "- item" lines. Outside ai_writable:,
// allow:/deny: open and close a network allow block whose domains:/ports:
// lists feed the network allow-lists. Scalar directives (max_percent:,
// max_ram_mb:, max_time_seconds:, max_failed_deployments:,
// max_regression_threshold:, emergency_disable_file:) set the matching
// policy field wherever they appear.
//
// Unknown directives are ignored. A source that opens but contains no
// recognized directives yields a snapshot populated entirely by defaults.
// Malformed numeric literals abort the parse with a *ParseError.
//
// Parsing is driven by an explicit finite-state machine (parserFSM); see
// parser.go for the transition table.
//
// # Basic Usage
//
//	pol, err := policy.Parse("policies/execution_policy.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(pol.Limits.MaxCPUPercent)
package policy
