package audit

import (
	"bufio"
	"os"
	"strings"
)

// Reader scans the audit log and reconstructs typed entries. It serves two
// consumers: the summarizing inspector for humans and tooling, and the
// failed-deployment counter the circuit breaker evaluates.
type Reader struct {
	path string
}

// NewReader creates a reader over the audit log at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// extractField pulls a named field's value out of a raw log line by
// locating the literal `"field":"` marker and reading up to the next quote.
// It is tolerant and order-independent, not a general object parser: a
// value containing an embedded quote truncates early, and a missing field
// reads as empty.
func extractField(line, field string) string {
	key := `"` + field + `":"`
	start := strings.Index(line, key)
	if start < 0 {
		return ""
	}

	rest := line[start+len(key):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// parseEntry reconstructs one entry from a raw log line, deriving the
// outcome from the action-specific fields.
func parseEntry(line string) Entry {
	entry := Entry{
		Timestamp: extractField(line, "timestamp"),
		Action:    extractField(line, "action"),
		ChangeID:  extractField(line, "change_id"),
		Summary:   extractField(line, "summary"),
	}

	switch entry.Action {
	case string(ActionApplied):
		if extractField(line, "success") == "true" {
			entry.Outcome = "success"
		} else {
			entry.Outcome = "failed"
		}
	case string(ActionReverted):
		entry.Outcome = "reverted:" + extractField(line, "reason")
	}

	return entry
}

// RecentEntries returns the last limit entries in file order, or all
// entries when the log holds fewer. A zero or negative limit reads as
// empty. An unopenable log reads as empty.
func (r *Reader) RecentEntries(limit int) []Entry {
	if limit <= 0 {
		return nil
	}
	all := r.AllEntries()
	if len(all) <= limit {
		return all
	}
	return all[len(all)-limit:]
}

// AllEntries returns every entry in file order. An unopenable log reads as
// empty.
func (r *Reader) AllEntries() []Entry {
	file, err := os.Open(r.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var all []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		all = append(all, parseEntry(scanner.Text()))
	}
	return all
}

// CountFailedDeployments counts records with action=applied and
// success=false across the entire log. This is the cheap raw-substring scan
// the circuit breaker consumes; it deliberately skips entry reconstruction.
// An unopenable log counts as zero.
func (r *Reader) CountFailedDeployments() int {
	file, err := os.Open(r.path)
	if err != nil {
		return 0
	}
	defer file.Close()

	failed := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, `"action":"applied"`) &&
			strings.Contains(line, `"success":"false"`) {
			failed++
		}
	}
	return failed
}

// Summary counts entries per lifecycle action across the entire log.
func (r *Reader) Summary() map[string]int {
	summary := map[string]int{
		string(ActionProposed): 0,
		string(ActionApplied):  0,
		string(ActionReverted): 0,
	}

	file, err := os.Open(r.path)
	if err != nil {
		return summary
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		action := extractField(scanner.Text(), "action")
		if _, ok := summary[action]; ok {
			summary[action]++
		}
	}
	return summary
}
