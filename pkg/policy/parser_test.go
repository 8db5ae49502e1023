package policy

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writePolicy writes a policy source into a temp dir and returns its path.
func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "execution_policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write policy fixture: %v", err)
	}
	return path
}

const samplePolicy = `# Execution policy for the autonomous agent
autonomy:
  ai_writable:
    allow:
      - game/ai/
      - tools/
    deny:
      - game/ai/secrets/

network:
  allow:
    domains:
      - api.example.com
      - "*"
    ports:
      - 443
  deny:

resource_limits:
  cpu:
    max_percent: 50
  memory:
    max_ram_mb: 2048
  execution:
    max_time_seconds: 600

circuit_breakers:
  max_failed_deployments: 5
  max_regression_threshold: 0.1
  emergency_disable_file: logs/.stop
`

func TestParse_FullPolicy(t *testing.T) {
	pol, err := Parse(writePolicy(t, samplePolicy))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if want := []string{"game/ai/", "tools/"}; !reflect.DeepEqual(pol.WritableAllowPrefixes, want) {
		t.Errorf("WritableAllowPrefixes = %v, want %v", pol.WritableAllowPrefixes, want)
	}
	if want := []string{"game/ai/secrets/"}; !reflect.DeepEqual(pol.WritableDenyPrefixes, want) {
		t.Errorf("WritableDenyPrefixes = %v, want %v", pol.WritableDenyPrefixes, want)
	}
	if want := []string{"api.example.com"}; !reflect.DeepEqual(pol.AllowedDomains, want) {
		t.Errorf("AllowedDomains = %v, want %v (wildcard must be dropped)", pol.AllowedDomains, want)
	}
	if want := []int{443}; !reflect.DeepEqual(pol.AllowedPorts, want) {
		t.Errorf("AllowedPorts = %v, want %v", pol.AllowedPorts, want)
	}
	if pol.Limits.MaxCPUPercent != 50 || pol.Limits.MaxRAMMB != 2048 || pol.Limits.MaxTimeSeconds != 600 {
		t.Errorf("Limits = %+v, want 50/2048/600", pol.Limits)
	}
	if pol.CircuitBreakers.MaxFailedDeployments != 5 {
		t.Errorf("MaxFailedDeployments = %d, want 5", pol.CircuitBreakers.MaxFailedDeployments)
	}
	if pol.CircuitBreakers.MaxRegressionThreshold != 0.1 {
		t.Errorf("MaxRegressionThreshold = %v, want 0.1", pol.CircuitBreakers.MaxRegressionThreshold)
	}
	if pol.CircuitBreakers.EmergencyDisableFile != "logs/.stop" {
		t.Errorf("EmergencyDisableFile = %q, want logs/.stop", pol.CircuitBreakers.EmergencyDisableFile)
	}
}

func TestParse_EmptySourceYieldsDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"comments and blanks only", "# nothing here\n\n   \n# still nothing\n"},
		{"unknown directives ignored", "mystery:\n  knob: 7\nother_thing: yes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol, err := Parse(writePolicy(t, tt.content))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if want := DefaultWritablePrefixes(); !reflect.DeepEqual(pol.WritableAllowPrefixes, want) {
				t.Errorf("WritableAllowPrefixes = %v, want defaults %v", pol.WritableAllowPrefixes, want)
			}
			if pol.Limits != Default().Limits {
				t.Errorf("Limits = %+v, want defaults %+v", pol.Limits, Default().Limits)
			}
			if pol.CircuitBreakers != Default().CircuitBreakers {
				t.Errorf("CircuitBreakers = %+v, want defaults %+v", pol.CircuitBreakers, Default().CircuitBreakers)
			}
		})
	}
}

func TestParse_MalformedNumbersAbort(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "network:\nallow:\nports:\n- not-a-port\n"},
		{"bad cpu percent", "cpu:\nmax_percent: lots\n"},
		{"bad ram", "memory:\nmax_ram_mb: 2GB\n"},
		{"bad regression threshold", "circuit_breakers:\nmax_regression_threshold: high\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(writePolicy(t, tt.content))
			if err == nil {
				t.Fatal("Parse() error = nil, want *ParseError")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if parseErr.Line == 0 {
				t.Errorf("ParseError.Line = 0, want the offending line number")
			}
		})
	}
}

func TestParse_UnopenableSource(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("Parse() error = nil, want open failure")
	}
}

func TestParse_HeaderResetsListContext(t *testing.T) {
	// Items following a section header must not leak into the previously
	// active list.
	content := `autonomy:
ai_writable:
allow:
- game/ai/
resource_limits:
- stray/item/
`
	pol, err := Parse(writePolicy(t, content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := []string{"game/ai/"}; !reflect.DeepEqual(pol.WritableAllowPrefixes, want) {
		t.Errorf("WritableAllowPrefixes = %v, want %v", pol.WritableAllowPrefixes, want)
	}
}

func TestParse_NetworkAllowSurvivesOtherHeaders(t *testing.T) {
	// Only the network: header closes an open network allow block. A
	// domains: list encountered after an unrelated header still appends.
	content := `network:
allow:
resource_limits:
domains:
- late.example.com
`
	pol, err := Parse(writePolicy(t, content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := []string{"late.example.com"}; !reflect.DeepEqual(pol.AllowedDomains, want) {
		t.Errorf("AllowedDomains = %v, want %v", pol.AllowedDomains, want)
	}
}

func TestParse_NetworkHeaderClosesAllowBlock(t *testing.T) {
	content := `network:
allow:
network:
domains:
- ignored.example.com
`
	pol, err := Parse(writePolicy(t, content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pol.AllowedDomains) != 0 {
		t.Errorf("AllowedDomains = %v, want empty (allow block was closed)", pol.AllowedDomains)
	}
}

func TestParse_DenyClosesNetworkAllowBlock(t *testing.T) {
	content := `network:
allow:
domains:
- early.example.com
deny:
domains:
- late.example.com
`
	pol, err := Parse(writePolicy(t, content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := []string{"early.example.com"}; !reflect.DeepEqual(pol.AllowedDomains, want) {
		t.Errorf("AllowedDomains = %v, want %v", pol.AllowedDomains, want)
	}
}

func TestParse_DomainsOutsideAllowBlockSelectNoList(t *testing.T) {
	content := `network:
domains:
- unlisted.example.com
`
	pol, err := Parse(writePolicy(t, content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(pol.AllowedDomains) != 0 {
		t.Errorf("AllowedDomains = %v, want empty", pol.AllowedDomains)
	}
}

func TestParse_ScalarDirectivesApplyAnywhere(t *testing.T) {
	// Scalar directives are keyed by prefix, independent of the section
	// the parser believes it is in.
	content := `max_time_seconds: 120
max_failed_deployments: 1
`
	pol, err := Parse(writePolicy(t, content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if pol.Limits.MaxTimeSeconds != 120 {
		t.Errorf("MaxTimeSeconds = %d, want 120", pol.Limits.MaxTimeSeconds)
	}
	if pol.CircuitBreakers.MaxFailedDeployments != 1 {
		t.Errorf("MaxFailedDeployments = %d, want 1", pol.CircuitBreakers.MaxFailedDeployments)
	}
}
