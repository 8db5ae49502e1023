package policy

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// section identifies which top-level block the parser is inside.
type section int

const (
	sectionTop section = iota
	sectionAIWritable
)

// listTarget identifies which policy list subsequent "- item" lines feed.
type listTarget int

const (
	targetNone listTarget = iota
	targetWritableAllow
	targetWritableDeny
	targetDomains
	targetPorts
)

// headerTokens reset the active list context. Entering "network:"
// additionally closes any open network allow block; the other headers leave
// it as-is, so a domains: list encountered later still appends.
var headerTokens = map[string]bool{
	"autonomy:":         true,
	"network:":          true,
	"resource_limits:":  true,
	"cpu:":              true,
	"memory:":           true,
	"execution:":        true,
	"circuit_breakers:": true,
}

// parserFSM is the parser state: the current section, whether a network
// allow block is open, and which list "- item" lines currently target.
// The transition table lives in step.
type parserFSM struct {
	section  section
	netAllow bool
	target   listTarget
}

// step applies one keyword token to the state. It returns true when the
// token was a recognized state transition and the line is consumed.
func (s *parserFSM) step(token string) bool {
	switch {
	case headerTokens[token]:
		s.section = sectionTop
		s.target = targetNone
		if token == "network:" {
			s.netAllow = false
		}
	case token == "ai_writable:":
		s.section = sectionAIWritable
		s.target = targetNone
	case token == "allow:":
		if s.section == sectionAIWritable {
			s.target = targetWritableAllow
		} else {
			s.netAllow = true
		}
	case token == "deny:":
		if s.section == sectionAIWritable {
			s.target = targetWritableDeny
		} else {
			s.netAllow = false
		}
	case token == "domains:":
		if s.netAllow {
			s.target = targetDomains
		} else {
			s.target = targetNone
		}
	case token == "ports:":
		if s.netAllow {
			s.target = targetPorts
		} else {
			s.target = targetNone
		}
	default:
		return false
	}
	return true
}

// Parse reads the policy source at path and constructs an ExecutionPolicy
// snapshot. It fails when the source cannot be opened or when a numeric
// directive is malformed; unknown directives are silently ignored. A source
// with no recognized directives yields a snapshot of pure defaults.
func Parse(path string) (ExecutionPolicy, error) {
	file, err := os.Open(path)
	if err != nil {
		return Default(), err
	}
	defer file.Close()

	pol := Default()
	fsm := parserFSM{}
	lineNo := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if fsm.step(trimmed) {
			continue
		}

		if item, ok := strings.CutPrefix(trimmed, "- "); ok {
			if err := appendItem(&pol, fsm.target, strings.TrimSpace(item)); err != nil {
				return Default(), newParseError(path, lineNo, trimmed, err)
			}
			continue
		}

		if err := setScalar(&pol, trimmed); err != nil {
			return Default(), newParseError(path, lineNo, trimmed, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Default(), err
	}

	if len(pol.WritableAllowPrefixes) == 0 {
		pol.WritableAllowPrefixes = DefaultWritablePrefixes()
	}

	return pol, nil
}

// appendItem routes one "- item" value to the list the FSM currently
// targets. Items seen with no active target are dropped.
func appendItem(pol *ExecutionPolicy, target listTarget, item string) error {
	switch target {
	case targetWritableAllow:
		pol.WritableAllowPrefixes = append(pol.WritableAllowPrefixes, item)
	case targetWritableDeny:
		pol.WritableDenyPrefixes = append(pol.WritableDenyPrefixes, item)
	case targetDomains:
		// A quoted wildcard entry means "no extra domains", not "all".
		if item != "" && item != `"*"` {
			pol.AllowedDomains = append(pol.AllowedDomains, item)
		}
	case targetPorts:
		port, err := strconv.Atoi(item)
		if err != nil {
			return err
		}
		pol.AllowedPorts = append(pol.AllowedPorts, port)
	}
	return nil
}

// setScalar applies a scalar directive wherever it appears in the source.
// Lines that match no known directive are ignored.
func setScalar(pol *ExecutionPolicy, trimmed string) error {
	value := func(key string) string {
		return strings.TrimSpace(trimmed[len(key):])
	}

	var err error
	switch {
	case strings.HasPrefix(trimmed, "max_percent:"):
		pol.Limits.MaxCPUPercent, err = strconv.Atoi(value("max_percent:"))
	case strings.HasPrefix(trimmed, "max_ram_mb:"):
		pol.Limits.MaxRAMMB, err = strconv.Atoi(value("max_ram_mb:"))
	case strings.HasPrefix(trimmed, "max_time_seconds:"):
		pol.Limits.MaxTimeSeconds, err = strconv.Atoi(value("max_time_seconds:"))
	case strings.HasPrefix(trimmed, "max_failed_deployments:"):
		pol.CircuitBreakers.MaxFailedDeployments, err = strconv.Atoi(value("max_failed_deployments:"))
	case strings.HasPrefix(trimmed, "max_regression_threshold:"):
		pol.CircuitBreakers.MaxRegressionThreshold, err = strconv.ParseFloat(value("max_regression_threshold:"), 64)
	case strings.HasPrefix(trimmed, "emergency_disable_file:"):
		pol.CircuitBreakers.EmergencyDisableFile = value("emergency_disable_file:")
	}
	return err
}
