package policy_test

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/policy"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// knownRules is a fixed rule ID set used by all validator tests.
// These are made-up IDs; they are not tied to any specific rule pack.
var knownRules = []string{"RULE_A", "RULE_B", "RULE_C"}

func boolPtr(b bool) *bool { return &b }

// ── happy path ────────────────────────────────────────────────────────────────

func TestValidate_ValidMinimalConfig(t *testing.T) {
	// A config with only version=1 and no other sections must be valid.
	cfg := &policy.PolicyConfig{Version: 1}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != 0 {
		t.Errorf("expected no errors; got %d: %v", len(errs), errs)
	}
}

func TestValidate_ValidFullConfig(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"RULE_A": {Enabled: boolPtr(false)},
			"RULE_B": {Severity: "warning"},
			"RULE_C": {Severity: "CRITICAL", Values: []string{"6380"}},
		},
		Enforcement: policy.EnforcementConfig{FailOnSeverity: "high"},
	}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != 0 {
		t.Errorf("expected no errors; got %d: %v", len(errs), errs)
	}
}

func TestValidate_SeverityCaseInsensitive(t *testing.T) {
	// Severity values must be accepted in any case.
	severities := []string{
		"critical", "CRITICAL", "Critical",
		"high", "HIGH", "High",
		"warning", "WARNING", "Warning",
	}
	for _, sev := range severities {
		cfg := &policy.PolicyConfig{
			Version: 1,
			Rules:   map[string]policy.RuleConfig{"RULE_A": {Severity: sev}},
		}
		errs := policy.Validate(cfg, knownRules)
		if len(errs) != 0 {
			t.Errorf("severity %q: expected no errors; got %v", sev, errs)
		}
	}
}

// ── version ───────────────────────────────────────────────────────────────────

func TestValidate_InvalidVersion(t *testing.T) {
	cfg := &policy.PolicyConfig{Version: 2}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != 1 {
		t.Errorf("expected 1 error; got %d: %v", len(errs), errs)
	}
}

func TestValidate_VersionZeroInvalid(t *testing.T) {
	cfg := &policy.PolicyConfig{Version: 0}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) == 0 {
		t.Fatal("expected version error for version=0; got none")
	}
}

// ── rules ─────────────────────────────────────────────────────────────────────

func TestValidate_UnknownRule(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"RULE_DOES_NOT_EXIST": {Severity: "high"},
		},
	}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) == 0 {
		t.Fatal("expected rule error; got none")
	}
}

func TestValidate_RemovedSeverityLevelsRejected(t *testing.T) {
	// MEDIUM, LOW and INFO are not part of the severity set.
	for _, sev := range []string{"medium", "LOW", "info"} {
		cfg := &policy.PolicyConfig{
			Version: 1,
			Rules:   map[string]policy.RuleConfig{"RULE_A": {Severity: sev}},
		}
		if errs := policy.Validate(cfg, knownRules); len(errs) != 1 {
			t.Errorf("severity %q: expected 1 error; got %v", sev, errs)
		}
	}
}

func TestValidate_EmptyValueRejected(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"RULE_A": {Values: []string{"0.0.0.0", ""}},
		},
	}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) != 1 {
		t.Errorf("expected 1 error; got %d: %v", len(errs), errs)
	}
}

// ── enforcement ───────────────────────────────────────────────────────────────

func TestValidate_InvalidFailOnSeverity(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version:     1,
		Enforcement: policy.EnforcementConfig{FailOnSeverity: "severe"},
	}
	errs := policy.Validate(cfg, knownRules)
	if len(errs) == 0 {
		t.Fatal("expected enforcement error; got none")
	}
}

// ── error collection ──────────────────────────────────────────────────────────

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 3,
		Rules: map[string]policy.RuleConfig{
			"UNKNOWN": {Severity: "urgent"},
		},
		Enforcement: policy.EnforcementConfig{FailOnSeverity: "nope"},
	}
	errs := policy.Validate(cfg, knownRules)
	// version + unknown rule + rule severity + enforcement
	if len(errs) != 4 {
		t.Errorf("expected 4 errors; got %d: %v", len(errs), errs)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	errs := policy.Validate(nil, knownRules)
	if len(errs) != 1 {
		t.Errorf("expected 1 error for nil config; got %d", len(errs))
	}
}

// ── value overrides against the catalogue ─────────────────────────────────────

func overrideCatalogue() []rules.Rule {
	return []rules.Rule{
		{ID: "REDIS_REQUIREPASS_MISSING", Key: "requirepass", Predicate: rules.Empty(), Message: "requirepass is missing", Severity: models.SeverityCritical},
		{ID: "REDIS_BIND_ALL_INTERFACES", Key: "bind", Predicate: rules.Contains("0.0.0.0"), Message: "bind listens to all interfaces", Severity: models.SeverityCritical},
		{ID: "REDIS_PORT_DEFAULT", Key: "port", Predicate: rules.Equals("6379"), Message: "redis port is not changed from default 6379", Severity: models.SeverityWarning},
		{ID: "REDIS_FLUSHALL_NOT_RENAMED", Key: "rename-command FLUSHALL", Predicate: rules.NotRenamed("FLUSHALL"), Message: "FLUSHALL command is not renamed", Severity: models.SeverityHigh},
	}
}

func TestValidateAgainst_EqualsTwoValuesRejected(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"REDIS_PORT_DEFAULT": {Values: []string{"6379", "6380"}},
		},
	}
	errs := policy.ValidateAgainst(cfg, overrideCatalogue())
	if len(errs) != 1 {
		t.Fatalf("expected 1 error; got %d: %v", len(errs), errs)
	}
	if !strings.HasPrefix(errs[0].Error(), "rules.REDIS_PORT_DEFAULT.values:") {
		t.Errorf("error should name the override; got %q", errs[0])
	}
}

func TestValidateAgainst_NotRenamedTwoValuesRejected(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"REDIS_FLUSHALL_NOT_RENAMED": {Values: []string{"FLUSHALL", "FLUSHDB"}},
		},
	}
	errs := policy.ValidateAgainst(cfg, overrideCatalogue())
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "rules.REDIS_FLUSHALL_NOT_RENAMED.values") {
		t.Errorf("expected one values error for the rename rule; got %v", errs)
	}
}

func TestValidateAgainst_ValuesOnEmptyRuleRejected(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"REDIS_REQUIREPASS_MISSING": {Values: []string{"x"}},
		},
	}
	if errs := policy.ValidateAgainst(cfg, overrideCatalogue()); len(errs) != 1 {
		t.Errorf("expected 1 error; got %d: %v", len(errs), errs)
	}
}

func TestValidateAgainst_ValidOverrides(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"REDIS_PORT_DEFAULT":        {Values: []string{"6380"}},
			"REDIS_BIND_ALL_INTERFACES": {Values: []string{"0.0.0.0", "::"}},
		},
	}
	if errs := policy.ValidateAgainst(cfg, overrideCatalogue()); len(errs) != 0 {
		t.Errorf("expected no errors; got %v", errs)
	}
}

func TestValidateAgainst_UnknownAndEmptyReportedOnce(t *testing.T) {
	cfg := &policy.PolicyConfig{
		Version: 1,
		Rules: map[string]policy.RuleConfig{
			"NO_SUCH_RULE":       {Enabled: boolPtr(false)},
			"REDIS_PORT_DEFAULT": {Values: []string{""}},
		},
	}
	// One unknown ID plus one empty value; the empty value is not re-reported
	// by the predicate check.
	if errs := policy.ValidateAgainst(cfg, overrideCatalogue()); len(errs) != 2 {
		t.Errorf("expected 2 errors; got %d: %v", len(errs), errs)
	}
}
