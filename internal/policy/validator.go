package policy

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// Validate checks cfg for semantic correctness and returns all validation errors
// found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - rule IDs must appear in availableRuleIDs
//   - rule severity overrides must be valid severity values if set
//   - rule value overrides must not contain empty strings
//   - enforcement fail_on_severity must be a valid severity value if set
//
// All errors are collected before returning; Validate never stops at the first error.
func Validate(cfg *PolicyConfig, availableRuleIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	// Build a lookup set for fast rule ID membership tests.
	knownIDs := make(map[string]struct{}, len(availableRuleIDs))
	for _, id := range availableRuleIDs {
		knownIDs[id] = struct{}{}
	}

	var errs []error

	// Version check.
	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	// Rule checks.
	for ruleID, rcfg := range cfg.Rules {
		if _, ok := knownIDs[ruleID]; !ok {
			errs = append(errs, fmt.Errorf("rules.%s: unknown rule ID", ruleID))
		}
		if rcfg.Severity != "" {
			if _, err := models.ParseSeverity(rcfg.Severity); err != nil {
				errs = append(errs, fmt.Errorf("rules.%s.severity: %w", ruleID, err))
			}
		}
		for i, v := range rcfg.Values {
			if v == "" {
				errs = append(errs, fmt.Errorf("rules.%s.values[%d]: empty value", ruleID, i))
			}
		}
	}

	// Enforcement check.
	if fail := cfg.Enforcement.FailOnSeverity; fail != "" {
		if _, err := models.ParseSeverity(fail); err != nil {
			errs = append(errs, fmt.Errorf("enforcement.fail_on_severity: %w", err))
		}
	}

	return errs
}

// ValidateAgainst runs Validate with the IDs of catalogue and then checks
// every value override against the predicate of the rule it rewrites.
func ValidateAgainst(cfg *PolicyConfig, catalogue []rules.Rule) []error {
	errs := Validate(cfg, rules.IDs(catalogue))
	if cfg == nil {
		return errs
	}
	return append(errs, validateOverrides(cfg, catalogue)...)
}

// validateOverrides walks catalogue in order so the errors are stable.
// Empty override entries are already reported by Validate.
func validateOverrides(cfg *PolicyConfig, catalogue []rules.Rule) []error {
	var errs []error
	for _, r := range catalogue {
		rc, ok := cfg.Rules[r.ID]
		if !ok || len(rc.Values) == 0 || hasEmpty(rc.Values) {
			continue
		}
		p := r.Predicate
		p.Values = GetValues(r.ID, r.Predicate.Values, cfg)
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("rules.%s.values: %w", r.ID, err))
		}
	}
	return errs
}

func hasEmpty(values []string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}
