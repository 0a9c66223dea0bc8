package rules

import "fmt"

// DefaultRuleRegistry is a simple, ordered, in-memory catalogue.
// Rules are evaluated in registration order.
// Register panics on duplicate rule IDs or keys to catch wiring mistakes at startup.
type DefaultRuleRegistry struct {
	rules []Rule
	ids   map[string]struct{}
	keys  map[string]struct{}
}

// NewDefaultRuleRegistry returns an empty registry ready for rule registration.
func NewDefaultRuleRegistry() *DefaultRuleRegistry {
	return &DefaultRuleRegistry{
		ids:  make(map[string]struct{}),
		keys: make(map[string]struct{}),
	}
}

// NewRegistry returns a registry populated with rs in order.
func NewRegistry(rs ...Rule) *DefaultRuleRegistry {
	r := NewDefaultRuleRegistry()
	for _, rule := range rs {
		r.Register(rule)
	}
	return r
}

// Register adds rule to the registry. Panics if the same ID or key is
// registered twice.
func (r *DefaultRuleRegistry) Register(rule Rule) {
	if _, exists := r.ids[rule.ID]; exists {
		panic(fmt.Sprintf("duplicate rule ID: %q", rule.ID))
	}
	if _, exists := r.keys[rule.Key]; exists {
		panic(fmt.Sprintf("duplicate rule key: %q", rule.Key))
	}
	r.rules = append(r.rules, rule)
	r.ids[rule.ID] = struct{}{}
	r.keys[rule.Key] = struct{}{}
}

// All returns a copy of the registered rules in registration order.
func (r *DefaultRuleRegistry) All() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Len returns the number of registered rules.
func (r *DefaultRuleRegistry) Len() int {
	return len(r.rules)
}

// IDs returns the rule IDs of rs in order.
func IDs(rs []Rule) []string {
	ids := make([]string, 0, len(rs))
	for _, rule := range rs {
		ids = append(ids, rule.ID)
	}
	return ids
}

// DistinctKeys returns each key of rs once, in first-seen order.
func DistinctKeys(rs []Rule) []string {
	seen := make(map[string]struct{}, len(rs))
	keys := make([]string, 0, len(rs))
	for _, rule := range rs {
		if _, ok := seen[rule.Key]; ok {
			continue
		}
		seen[rule.Key] = struct{}{}
		keys = append(keys, rule.Key)
	}
	return keys
}
