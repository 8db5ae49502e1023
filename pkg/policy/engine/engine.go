package engine

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"aegisworld/warden/pkg/policy"
)

// Engine evaluates proposed changes against a policy snapshot. It is
// stateless apart from its collaborators and safe for concurrent use.
type Engine struct {
	failures FailureCounter
	logger   *slog.Logger
}

// New creates an engine that consults failures for the circuit breaker's
// failed-deployment count.
func New(failures FailureCounter) *Engine {
	return &Engine{
		failures: failures,
		logger:   slog.Default().With("component", "policy.engine"),
	}
}

// Enforce runs the four enforcement stages in order and returns the first
// failure, or an allowed verdict when every stage passes. The returned
// stage identifies where the decision was made.
func (e *Engine) Enforce(pol policy.ExecutionPolicy, req Request) (policy.DeploymentDecision, Stage) {
	for _, path := range req.TouchedFiles {
		if reason, ok := checkWritablePath(pol, path); !ok {
			return deny(reason), StagePaths
		}
	}

	if reason, ok := checkNetwork(pol, req.OutboundDomain, req.OutboundPort); !ok {
		return deny(reason), StageNetwork
	}

	if reason, ok := checkResources(pol.Limits, req); !ok {
		return deny(reason), StageResources
	}

	if reason, open := e.circuitBreakerOpen(pol.CircuitBreakers, req.RegressionScore); open {
		return deny(reason), StageBreaker
	}

	return policy.DeploymentDecision{Allowed: true, Reason: "allowed"}, StageAllowed
}

func deny(reason string) policy.DeploymentDecision {
	return policy.DeploymentDecision{Allowed: false, Reason: reason}
}

// checkWritablePath applies the deny-before-allow prefix rules to one path.
func checkWritablePath(pol policy.ExecutionPolicy, path string) (string, bool) {
	for _, prefix := range pol.WritableDenyPrefixes {
		if strings.HasPrefix(path, prefix) {
			return "write denied for path: " + path, false
		}
	}

	for _, prefix := range pol.WritableAllowPrefixes {
		if strings.HasPrefix(path, prefix) {
			return "", true
		}
	}

	return "write outside allowed scope: " + path, false
}

// checkNetwork validates the declared outbound destination. A change that
// claims no network activity passes unconditionally.
func checkNetwork(pol policy.ExecutionPolicy, domain string, port int) (string, bool) {
	if domain == "" {
		return "", true
	}

	allowed := false
	for _, d := range pol.AllowedDomains {
		if d == domain {
			allowed = true
			break
		}
	}
	if !allowed {
		return "domain not allowed: " + domain, false
	}

	for _, p := range pol.AllowedPorts {
		if p == port {
			return "", true
		}
	}
	return "port not allowed: " + strconv.Itoa(port), false
}

// checkResources compares requested numbers against the configured
// ceilings. A request exactly at a ceiling passes; only strict greater-than
// denies.
func checkResources(limits policy.ResourceLimits, req Request) (string, bool) {
	if req.RequestedCPUPercent > limits.MaxCPUPercent {
		return "cpu request exceeds max policy", false
	}
	if req.RequestedRAMMB > limits.MaxRAMMB {
		return "ram request exceeds max policy", false
	}
	if req.RequestedRuntimeSeconds > limits.MaxTimeSeconds {
		return "runtime request exceeds max policy", false
	}
	return "", true
}

// circuitBreakerOpen evaluates the three breaker conditions in order: the
// emergency disable marker, the all-time failed-deployment count from the
// audit trail, and the regression score threshold.
func (e *Engine) circuitBreakerOpen(cfg policy.CircuitBreakerConfig, regressionScore float64) (string, bool) {
	if cfg.EmergencyDisableFile != "" {
		if _, err := os.Stat(cfg.EmergencyDisableFile); err == nil {
			return "autonomy disabled by local emergency switch", true
		}
	}

	if failed := e.failures.CountFailedDeployments(); failed >= cfg.MaxFailedDeployments {
		e.logger.Warn("circuit breaker tripped by failed deployments",
			"failed_count", failed,
			"max_failed_deployments", cfg.MaxFailedDeployments,
		)
		return "circuit breaker open: too many failed deployments", true
	}

	if regressionScore > cfg.MaxRegressionThreshold {
		return "circuit breaker open: regression threshold exceeded", true
	}

	return "", false
}
