package guard

import (
	"github.com/google/uuid"

	"aegisworld/warden/pkg/policy"
	"aegisworld/warden/pkg/policy/engine"
)

// ApplyFunc performs the actual file-system mutation for a change and
// reports whether it took effect. The gate never mutates files itself.
type ApplyFunc func() bool

// DeployPatch runs the full gated deployment flow for one change:
//
//  1. Record "proposed".
//  2. Enforce the policy; a denial records "reverted" with the reason.
//  3. Invoke the apply callback.
//  4. Record "applied" on success, "reverted" on a failed callback.
//
// An empty changeID is replaced with a generated UUID. The returned
// decision carries the denial reason, "patch deployed" on success, or
// "deployment callback failed" when the callback reported failure.
func (g *Guard) DeployPatch(changeID, summary string, req engine.Request, apply ApplyFunc) policy.DeploymentDecision {
	if changeID == "" {
		changeID = uuid.New().String()
	}

	g.RecordProposed(changeID, summary)

	decision := g.EnforceBeforePatchDeployment(req)
	if !decision.Allowed {
		g.RecordReverted(changeID, summary, decision.Reason)
		return decision
	}

	if !apply() {
		g.RecordApplied(changeID, summary, false)
		return policy.DeploymentDecision{Allowed: false, Reason: "deployment callback failed"}
	}

	g.RecordApplied(changeID, summary, true)
	return policy.DeploymentDecision{Allowed: true, Reason: "patch deployed"}
}
