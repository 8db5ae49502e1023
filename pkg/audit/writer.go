package audit

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Writer appends one structured record per change-lifecycle event to the
// audit log. It holds no state between calls; the log file is opened and
// closed per record.
type Writer struct {
	path   string
	now    func() time.Time
	logger *slog.Logger
}

// NewWriter creates a writer appending to the audit log at path.
func NewWriter(path string) *Writer {
	return &Writer{
		path:   path,
		now:    time.Now,
		logger: slog.Default().With("component", "audit.writer"),
	}
}

// RecordProposed appends a "proposed" record with a summary field.
func (w *Writer) RecordProposed(changeID, summary string) {
	w.Record(ActionProposed, changeID, map[string]string{"summary": summary})
}

// RecordApplied appends an "applied" record. The success flag is serialized
// as the literal strings "true"/"false" so readers can derive the outcome.
func (w *Writer) RecordApplied(changeID, summary string, success bool) {
	fields := map[string]string{"summary": summary, "success": "false"}
	if success {
		fields["success"] = "true"
	}
	w.Record(ActionApplied, changeID, fields)
}

// RecordReverted appends a "reverted" record with the revert reason.
func (w *Writer) RecordReverted(changeID, summary, reason string) {
	w.Record(ActionReverted, changeID, map[string]string{"summary": summary, "reason": reason})
}

// Record appends exactly one line to the audit log, creating parent
// directories if needed. Extra fields are emitted in lexicographic key
// order after the fixed timestamp/action/change_id keys. A failed file
// open degrades to a no-op; auditing never blocks a deployment decision.
func (w *Writer) Record(action Action, changeID string, fields map[string]string) {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			w.logger.Debug("audit log directory not creatable, dropping record",
				"path", w.path,
				"error", err,
			)
			return
		}
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		w.logger.Debug("audit log not writable, dropping record",
			"path", w.path,
			"error", err,
		)
		return
	}
	defer file.Close()

	var line strings.Builder
	line.WriteString(`{"timestamp":"`)
	line.WriteString(w.now().UTC().Format("2006-01-02T15:04:05Z"))
	line.WriteString(`","action":"`)
	line.WriteString(string(action))
	line.WriteString(`","change_id":"`)
	line.WriteString(changeID)
	line.WriteString(`"`)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		line.WriteString(`,"`)
		line.WriteString(key)
		line.WriteString(`":"`)
		line.WriteString(fields[key])
		line.WriteString(`"`)
	}
	line.WriteString("}\n")

	if _, err := file.WriteString(line.String()); err != nil {
		w.logger.Debug("audit log write failed",
			"path", w.path,
			"error", err,
		)
	}
}
