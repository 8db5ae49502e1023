package engine

// Request describes the facts a proposed change declares about itself.
// The gate checks these declared values against policy ceilings; it does
// not meter actual usage.
type Request struct {
	// TouchedFiles lists every path the change intends to write.
	TouchedFiles []string

	// OutboundDomain is the network destination the change claims it will
	// contact. Empty means no network activity is claimed, which passes the
	// network check unconditionally.
	OutboundDomain string

	// OutboundPort is the destination port, checked only when
	// OutboundDomain is set.
	OutboundPort int

	// RequestedCPUPercent is the CPU share the change asks for.
	RequestedCPUPercent int

	// RequestedRAMMB is the resident memory the change asks for, in MB.
	RequestedRAMMB int

	// RequestedRuntimeSeconds is the runtime the change asks for.
	RequestedRuntimeSeconds int

	// RegressionScore is the caller-supplied measure of quality
	// degradation, compared against the breaker's threshold.
	RegressionScore float64
}

// Stage names the enforcement stage a decision was made in, for metrics
// and logging.
type Stage string

const (
	StagePaths     Stage = "paths"
	StageNetwork   Stage = "network"
	StageResources Stage = "resources"
	StageBreaker   Stage = "breaker"
	// StageAllowed marks a decision that passed every stage.
	StageAllowed Stage = "allowed"
)

// FailureCounter is the audit-trail query the circuit breaker consumes:
// the count of applied-and-failed deployment records. *audit.Reader
// satisfies it.
type FailureCounter interface {
	CountFailedDeployments() int
}
