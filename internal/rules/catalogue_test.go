package rules_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

func writeCatalogue(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalogue: %v", err)
	}
	return path
}

const validCatalogue = `
version: 1
name: hardened
rules:
  - id: REDIS_REQUIREPASS_MISSING
    key: requirepass
    predicate: { kind: empty }
    message: requirepass is missing
    severity: critical
  - id: REDIS_BIND_ALL_INTERFACES
    key: bind
    predicate: { kind: contains, values: ["0.0.0.0"] }
    message: bind listens to all interfaces
    severity: CRITICAL
  - id: REDIS_FLUSHALL_NOT_RENAMED
    key: rename-command FLUSHALL
    predicate: { kind: not_renamed, values: [FLUSHALL] }
    message: FLUSHALL command is not renamed
    severity: HIGH
    recommendation: Rename FLUSHALL.
`

func TestLoadCatalogue_Valid(t *testing.T) {
	cat, err := rules.LoadCatalogue(writeCatalogue(t, validCatalogue))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Name != "hardened" {
		t.Errorf("Name = %q; want hardened", cat.Name)
	}
	if len(cat.Rules) != 3 {
		t.Fatalf("len(Rules) = %d; want 3", len(cat.Rules))
	}
	first := cat.Rules[0]
	if first.Severity != models.SeverityCritical {
		t.Errorf("lower-case severity not normalised: %q", first.Severity)
	}
	if first.Predicate.Kind != rules.KindEmpty {
		t.Errorf("Predicate.Kind = %q; want empty", first.Predicate.Kind)
	}
	last := cat.Rules[2]
	if !last.Predicate.Insecure("FLUSHALL") || last.Predicate.Insecure("RENAMEDCMD") {
		t.Error("loaded not_renamed predicate behaves incorrectly")
	}
	if last.Recommendation != "Rename FLUSHALL." {
		t.Errorf("Recommendation = %q", last.Recommendation)
	}
}

func TestParseCatalogue_DefaultName(t *testing.T) {
	cat, err := rules.ParseCatalogue([]byte(`
version: 1
rules:
  - id: R1
    key: port
    predicate: { kind: equals, values: ["6379"] }
    message: default port
    severity: WARNING
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Name != "custom" {
		t.Errorf("Name = %q; want custom", cat.Name)
	}
}

func TestParseCatalogue_Rejects(t *testing.T) {
	tests := map[string]string{
		"wrong version": "version: 2\nrules:\n  - {id: R1, key: a, predicate: {kind: empty}, message: m, severity: HIGH}\n",
		"no rules":      "version: 1\nrules: []\n",
		"bad yaml":      "version: [1\n",
		"bad severity":  "version: 1\nrules:\n  - {id: R1, key: a, predicate: {kind: empty}, message: m, severity: LOW}\n",
	}
	for name, doc := range tests {
		if _, err := rules.ParseCatalogue([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// Every problem is reported, not only the first one.
func TestParseCatalogue_CollectsAllErrors(t *testing.T) {
	_, err := rules.ParseCatalogue([]byte(`
version: 1
rules:
  - { id: R1, key: a, predicate: { kind: regex }, message: m, severity: HIGH }
  - { id: R2, key: b, predicate: { kind: empty }, message: m, severity: HIGH }
  - { id: R2, key: b, predicate: { kind: empty }, message: m, severity: HIGH }
`))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"rules[0]", "duplicate rule ID", "duplicate key"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestLoadCatalogue_MissingFile(t *testing.T) {
	if _, err := rules.LoadCatalogue(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
