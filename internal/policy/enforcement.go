package policy

import (
	"strings"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
)

// ShouldFail reports whether any finding in findings has a severity at or above
// the configured fail_on_severity threshold.
//
// It returns false when:
//   - cfg is nil (no policy loaded)
//   - fail_on_severity is empty or an unrecognised value
//   - findings is empty
//
// Severity ordering: CRITICAL > HIGH > WARNING.
func ShouldFail(findings []models.Finding, cfg *PolicyConfig) bool {
	if cfg == nil || cfg.Enforcement.FailOnSeverity == "" {
		return false
	}
	threshold := models.Severity(strings.ToUpper(cfg.Enforcement.FailOnSeverity))
	if !threshold.Valid() {
		return false
	}
	for _, f := range findings {
		if f.Severity.Valid() && f.Severity.Rank() <= threshold.Rank() {
			return true
		}
	}
	return false
}
