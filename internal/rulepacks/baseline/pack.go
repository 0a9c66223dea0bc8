// Package baseline provides the minimal four-key Redis rule pack: the checks
// that matter for any internet-adjacent instance and nothing else.
package baseline

import (
	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// Name is the pack name accepted by --pack.
const Name = "baseline"

// New returns the baseline rule pack.
func New() []rules.Rule {
	return []rules.Rule{
		{ID: "REDIS_REQUIREPASS_MISSING", Key: "requirepass", Predicate: rules.Empty(), Message: "requirepass is missing", Severity: models.SeverityCritical},
		{ID: "REDIS_PROTECTED_MODE_OFF", Key: "protected-mode", Predicate: rules.Equals("no"), Message: "protected-mode is disabled", Severity: models.SeverityCritical},
		{ID: "REDIS_BIND_ALL_INTERFACES", Key: "bind", Predicate: rules.Contains("0.0.0.0"), Message: "bind listens to all interfaces", Severity: models.SeverityCritical},
		{ID: "REDIS_PORT_DEFAULT", Key: "port", Predicate: rules.Equals("6379"), Message: "redis port is not changed from default 6379", Severity: models.SeverityWarning},
	}
}
