package audit

// Action is the lifecycle stage of a proposed change.
type Action string

const (
	// ActionProposed marks a change that has been suggested but not applied.
	ActionProposed Action = "proposed"

	// ActionApplied marks a change that was deployed, successfully or not.
	ActionApplied Action = "applied"

	// ActionReverted marks a change that was rolled back or rejected.
	ActionReverted Action = "reverted"
)

// Entry is one reconstructed audit record.
type Entry struct {
	// Timestamp is the record's ISO-8601 UTC timestamp, as written.
	Timestamp string `json:"timestamp"`

	// Action is the lifecycle stage ("proposed", "applied", "reverted").
	Action string `json:"action"`

	// ChangeID identifies the change across its lifecycle events.
	ChangeID string `json:"change_id"`

	// Summary is the caller-supplied one-line description.
	Summary string `json:"summary"`

	// Outcome is derived at read time: "success" or "failed" for applied
	// records, "reverted:<reason>" for reverted records, empty for proposed.
	Outcome string `json:"outcome"`
}
