package policy

// ResourceLimits contains the ceilings a proposed change's resource request
// is checked against. Requests are compared with strict greater-than: a
// request exactly at the ceiling is allowed.
type ResourceLimits struct {
	// MaxCPUPercent is the maximum CPU share a change may request.
	MaxCPUPercent int

	// MaxRAMMB is the maximum resident memory a change may request, in MB.
	MaxRAMMB int

	// MaxTimeSeconds is the maximum runtime a change may request.
	MaxTimeSeconds int
}

// CircuitBreakerConfig configures the derived "autonomy disabled" state.
type CircuitBreakerConfig struct {
	// MaxFailedDeployments trips the breaker once the audit trail contains
	// at least this many failed "applied" records.
	MaxFailedDeployments int

	// MaxRegressionThreshold trips the breaker when a proposed change's
	// regression score strictly exceeds it.
	MaxRegressionThreshold float64

	// EmergencyDisableFile is a marker file path; its mere existence on
	// disk disables all deployments. Content is irrelevant.
	EmergencyDisableFile string
}

// ExecutionPolicy is the in-memory snapshot of all enforceable rules.
// It is immutable once constructed; reloading replaces the whole value.
type ExecutionPolicy struct {
	// WritableAllowPrefixes lists path prefixes a change may write under.
	// A write is allowed only if some prefix matches.
	WritableAllowPrefixes []string

	// WritableDenyPrefixes lists path prefixes that are always denied.
	// Deny is checked before allow and wins on match.
	WritableDenyPrefixes []string

	// AllowedDomains is the outbound network domain allow-list.
	AllowedDomains []string

	// AllowedPorts is the outbound network port allow-list.
	AllowedPorts []int

	// Limits holds the resource ceilings.
	Limits ResourceLimits

	// CircuitBreakers holds the circuit-breaker configuration.
	CircuitBreakers CircuitBreakerConfig
}

// DeploymentDecision is the allow/deny verdict for a proposed change.
// Reason is always populated: "allowed" on success, a specific cause string
// on denial.
type DeploymentDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// defaultWritablePrefixes is installed when the parsed policy declares no
// writable allow prefixes at all.
var defaultWritablePrefixes = []string{"game/ai/", "policies/", "logs/", "tools/"}

// Default returns the zero-configuration policy: no writable or network
// rules, default resource ceilings and breaker configuration. This is the
// snapshot a guard holds before any policy source has been loaded.
func Default() ExecutionPolicy {
	return ExecutionPolicy{
		Limits: ResourceLimits{
			MaxCPUPercent:  70,
			MaxRAMMB:       4096,
			MaxTimeSeconds: 900,
		},
		CircuitBreakers: CircuitBreakerConfig{
			MaxFailedDeployments:   3,
			MaxRegressionThreshold: 0.05,
			EmergencyDisableFile:   "logs/.autonomy_disabled",
		},
	}
}

// DefaultWritablePrefixes returns a copy of the hard-coded writable allow
// prefixes substituted when a policy source declares none.
func DefaultWritablePrefixes() []string {
	out := make([]string, len(defaultWritablePrefixes))
	copy(out, defaultWritablePrefixes)
	return out
}
