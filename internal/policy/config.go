package policy

// PolicyConfig is the parsed rguard.yaml policy file.
type PolicyConfig struct {
	Version     int                   `yaml:"version"`
	Rules       map[string]RuleConfig `yaml:"rules"`
	Enforcement EnforcementConfig     `yaml:"enforcement"`
}

// RuleConfig overrides one catalogue rule, keyed by rule ID.
type RuleConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Severity string `yaml:"severity,omitempty"`

	// Values replaces the rule's predicate parameters, e.g. the insecure
	// port for REDIS_PORT_DEFAULT or extra substrings for a contains rule.
	Values []string `yaml:"values,omitempty"`
}

// EnforcementConfig controls the process exit status.
type EnforcementConfig struct {
	// FailOnSeverity makes the audit exit non-zero when any finding is at or
	// above this severity. Empty disables enforcement.
	FailOnSeverity string `yaml:"fail_on_severity,omitempty"`
}

// DefaultPolicyFile is the policy file picked up from the working directory
// when --policy is not given.
const DefaultPolicyFile = "rguard.yaml"
