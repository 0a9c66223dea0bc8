// Package redis provides the full Redis configuration audit rule pack.
//
// Convention: every rule pack lives in internal/rulepacks/<name>/pack.go
// and exposes a single New() func returning []rules.Rule. The slice order is
// the evaluation order and therefore the order of messages within a severity.
package redis

import (
	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// Name is the pack name accepted by --pack.
const Name = "redis"

// New returns the full Redis configuration audit rule pack.
func New() []rules.Rule {
	return []rules.Rule{
		{
			ID:             "REDIS_REQUIREPASS_MISSING",
			Key:            "requirepass",
			Predicate:      rules.Empty(),
			Message:        "requirepass is missing",
			Severity:       models.SeverityCritical,
			Recommendation: "Set a strong requirepass or configure ACL users with passwords.",
		},
		{
			ID:             "REDIS_PROTECTED_MODE_OFF",
			Key:            "protected-mode",
			Predicate:      rules.Equals("no"),
			Message:        "protected-mode is disabled",
			Severity:       models.SeverityCritical,
			Recommendation: "Set protected-mode yes unless authentication and bind are both restricted.",
		},
		{
			ID:             "REDIS_APPENDONLY_OFF",
			Key:            "appendonly",
			Predicate:      rules.Equals("no"),
			Message:        "AOF persistence is disabled",
			Severity:       models.SeverityWarning,
			Recommendation: "Enable appendonly yes if the dataset must survive restarts.",
		},
		{
			ID:             "REDIS_MAXMEMORY_UNSET",
			Key:            "maxmemory",
			Predicate:      rules.Equals("0"),
			Message:        "maxmemory is not set",
			Severity:       models.SeverityHigh,
			Recommendation: "Set maxmemory below the host memory limit.",
		},
		{
			ID:             "REDIS_NOEVICTION_POLICY",
			Key:            "maxmemory-policy",
			Predicate:      rules.Equals("noeviction"),
			Message:        "noeviction policy is set",
			Severity:       models.SeverityHigh,
			Recommendation: "Choose an eviction policy such as allkeys-lru for cache workloads.",
		},
		{
			ID:             "REDIS_ACLFILE_MISSING",
			Key:            "aclfile",
			Predicate:      rules.Empty(),
			Message:        "ACL file is not configured",
			Severity:       models.SeverityHigh,
			Recommendation: "Manage users in an aclfile instead of a single shared password.",
		},
		{
			ID:             "REDIS_BIND_ALL_INTERFACES",
			Key:            "bind",
			Predicate:      rules.Contains("0.0.0.0"),
			Message:        "bind listens to all interfaces",
			Severity:       models.SeverityCritical,
			Recommendation: "Bind only to loopback or private interfaces.",
		},
		{
			ID:             "REDIS_PORT_DEFAULT",
			Key:            "port",
			Predicate:      rules.Equals("6379"),
			Message:        "redis port is not changed from default 6379",
			Severity:       models.SeverityWarning,
			Recommendation: "Move Redis off the default port to reduce drive-by scanning.",
		},
		{
			ID:             "REDIS_UNIXSOCKET_MISSING",
			Key:            "unixsocket",
			Predicate:      rules.Empty(),
			Message:        "unixsocket is not configured",
			Severity:       models.SeverityHigh,
			Recommendation: "Serve local clients over a unixsocket with restrictive unixsocketperm.",
		},
		{
			ID:             "REDIS_SAVE_DISABLED",
			Key:            "save",
			Predicate:      rules.Empty(),
			Message:        "save is not enabled",
			Severity:       models.SeverityWarning,
			Recommendation: "Configure RDB save points if snapshots are required.",
		},
		renameRule("FLUSHALL", models.SeverityCritical),
		renameRule("CONFIG", models.SeverityHigh),
		renameRule("DEBUG", models.SeverityWarning),
		renameRule("MODULE", models.SeverityWarning),
		renameRule("SCRIPT", models.SeverityHigh),
		renameRule("KEYS", models.SeverityHigh),
		{
			ID:             "REDIS_TIMEOUT_NOT_SET",
			Key:            "timeout",
			Predicate:      rules.Equals("0"),
			Message:        "Client timeout is not set",
			Severity:       models.SeverityHigh,
			Recommendation: "Set timeout so idle client connections are closed.",
		},
		{
			ID:             "REDIS_TLS_DISABLED",
			Key:            "tls-port",
			Predicate:      rules.Equals("0"),
			Message:        "TLS encryption is not enabled",
			Severity:       models.SeverityHigh,
			Recommendation: "Enable tls-port and configure certificates.",
		},
		{
			ID:             "REDIS_CLIENT_BUFFER_UNLIMITED",
			Key:            "client-output-buffer-limit",
			Predicate:      rules.Contains("0 0 0"),
			Message:        "Client output buffer limits are not set",
			Severity:       models.SeverityHigh,
			Recommendation: "Set hard and soft client-output-buffer-limit values for every client class.",
		},
	}
}

// renameRule builds the rule that checks whether command was renamed away.
func renameRule(command string, sev models.Severity) rules.Rule {
	return rules.Rule{
		ID:             "REDIS_" + command + "_NOT_RENAMED",
		Key:            "rename-command " + command,
		Predicate:      rules.NotRenamed(command),
		Message:        command + " command is not renamed",
		Severity:       sev,
		Recommendation: "Rename or disable " + command + " with rename-command, or deny it through ACLs.",
	}
}
