package guard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"aegisworld/warden/pkg/audit"
	"aegisworld/warden/pkg/policy"
	"aegisworld/warden/pkg/policy/engine"
)

// ArchiveSink receives a best-effort mirror of every audit record for
// querying and retention. The line-format log stays the source of truth;
// archive failures never affect recording or enforcement.
type ArchiveSink interface {
	Store(ctx context.Context, entry audit.Entry) error
}

// Config contains configuration for the guard.
type Config struct {
	// PolicyPath is the policy source location.
	// Default: policies/execution_policy.yaml
	PolicyPath string

	// AuditLogPath is the audit log location.
	// Default: logs/autonomy_audit.log
	AuditLogPath string

	// Archive, when non-nil, mirrors every audit record into a queryable
	// store. Optional.
	Archive ArchiveSink
}

// DefaultConfig returns the default guard configuration.
func DefaultConfig() *Config {
	return &Config{
		PolicyPath:   "policies/execution_policy.yaml",
		AuditLogPath: "logs/autonomy_audit.log",
	}
}

// Guard is the pre-deployment policy gate façade. It owns one policy
// snapshot, evaluates proposed changes against it, and records every
// change-lifecycle event to the audit trail.
type Guard struct {
	config *Config

	mu     sync.RWMutex
	policy policy.ExecutionPolicy
	loaded bool

	writer  *audit.Writer
	reader  *audit.Reader
	engine  *engine.Engine
	logger  *slog.Logger
	metrics *metrics
}

// New creates a guard holding the default policy snapshot. Call
// ReloadPolicy to load the policy source; until then (or after a failed
// reload) the held snapshot stays authoritative.
func New(config *Config) *Guard {
	if config == nil {
		config = DefaultConfig()
	}

	reader := audit.NewReader(config.AuditLogPath)
	return &Guard{
		config:  config,
		policy:  policy.Default(),
		writer:  audit.NewWriter(config.AuditLogPath),
		reader:  reader,
		engine:  engine.New(reader),
		logger:  slog.Default().With("component", "guard"),
		metrics: guardMetrics(),
	}
}

// ReloadPolicy parses the policy source and atomically swaps the held
// snapshot. On failure the previous snapshot remains authoritative; there
// is no partial merge.
func (g *Guard) ReloadPolicy() error {
	pol, err := policy.Parse(g.config.PolicyPath)
	if err != nil {
		g.metrics.policyReloads.WithLabelValues("failure").Inc()
		g.logger.Error("policy reload failed, keeping previous snapshot",
			"policy_path", g.config.PolicyPath,
			"error", err,
		)
		return err
	}

	g.mu.Lock()
	g.policy = pol
	g.loaded = true
	g.mu.Unlock()

	g.metrics.policyReloads.WithLabelValues("success").Inc()
	g.logger.Info("policy reloaded",
		"policy_path", g.config.PolicyPath,
		"allow_prefixes", len(pol.WritableAllowPrefixes),
		"deny_prefixes", len(pol.WritableDenyPrefixes),
		"allowed_domains", len(pol.AllowedDomains),
	)
	return nil
}

// Policy returns the currently held policy snapshot.
func (g *Guard) Policy() policy.ExecutionPolicy {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.policy
}

// Loaded reports whether a policy source has ever been loaded successfully.
func (g *Guard) Loaded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loaded
}

// EnforceBeforePatchDeployment evaluates a proposed change against the held
// snapshot. Denial is reported as a value, never an error; callers must
// branch on the decision.
func (g *Guard) EnforceBeforePatchDeployment(req engine.Request) policy.DeploymentDecision {
	decision, stage := g.engine.Enforce(g.Policy(), req)

	result := "deny"
	if decision.Allowed {
		result = "allow"
	}
	g.metrics.enforcementDecisions.WithLabelValues(result, string(stage)).Inc()

	if !decision.Allowed {
		g.logger.Info("deployment denied",
			"stage", stage,
			"reason", decision.Reason,
			"touched_files", len(req.TouchedFiles),
		)
	}
	return decision
}

// RecordProposed records a change suggestion in the audit trail.
func (g *Guard) RecordProposed(changeID, summary string) {
	g.writer.RecordProposed(changeID, summary)
	g.metrics.auditRecords.WithLabelValues(string(audit.ActionProposed)).Inc()
	g.mirror(audit.Entry{
		Timestamp: nowStamp(),
		Action:    string(audit.ActionProposed),
		ChangeID:  changeID,
		Summary:   summary,
	})
}

// RecordApplied records a deployment attempt and its success flag.
func (g *Guard) RecordApplied(changeID, summary string, success bool) {
	g.writer.RecordApplied(changeID, summary, success)
	g.metrics.auditRecords.WithLabelValues(string(audit.ActionApplied)).Inc()

	outcome := "failed"
	if success {
		outcome = "success"
	}
	g.mirror(audit.Entry{
		Timestamp: nowStamp(),
		Action:    string(audit.ActionApplied),
		ChangeID:  changeID,
		Summary:   summary,
		Outcome:   outcome,
	})
}

// RecordReverted records a rollback or rejection with its reason.
func (g *Guard) RecordReverted(changeID, summary, reason string) {
	g.writer.RecordReverted(changeID, summary, reason)
	g.metrics.auditRecords.WithLabelValues(string(audit.ActionReverted)).Inc()
	g.mirror(audit.Entry{
		Timestamp: nowStamp(),
		Action:    string(audit.ActionReverted),
		ChangeID:  changeID,
		Summary:   summary,
		Outcome:   "reverted:" + reason,
	})
}

// RecentEntries returns the last limit audit entries in file order.
func (g *Guard) RecentEntries(limit int) []audit.Entry {
	return g.reader.RecentEntries(limit)
}

// AuditSummary returns per-action counts across the audit trail.
func (g *Guard) AuditSummary() map[string]int {
	return g.reader.Summary()
}

// mirror forwards an entry to the archive sink, if one is configured.
func (g *Guard) mirror(entry audit.Entry) {
	if g.config.Archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.config.Archive.Store(ctx, entry); err != nil {
		g.logger.Warn("audit archive mirror failed",
			"change_id", entry.ChangeID,
			"action", entry.Action,
			"error", err,
		)
	}
}

func nowStamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
