package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// ApplyPolicy returns the catalogue as the policy wants it evaluated:
// disabled rules removed, severities and predicate values overridden.
// The input slice is never modified, so a shared catalogue stays read-only.
func ApplyPolicy(catalogue []rules.Rule, cfg *PolicyConfig) []rules.Rule {
	if cfg == nil {
		return catalogue
	}

	result := make([]rules.Rule, 0, len(catalogue))

	for _, r := range catalogue {
		ruleCfg, hasRule := cfg.Rules[r.ID]

		// Rule-level disable
		if hasRule && ruleCfg.Enabled != nil && !*ruleCfg.Enabled {
			continue
		}

		// Severity override; invalid values are reported by Validate and ignored here.
		if hasRule && ruleCfg.Severity != "" {
			if sev := models.Severity(strings.ToUpper(ruleCfg.Severity)); sev.Valid() {
				r.Severity = sev
			}
		}

		r.Predicate.Values = GetValues(r.ID, r.Predicate.Values, cfg)

		result = append(result, r)
	}

	return result
}
