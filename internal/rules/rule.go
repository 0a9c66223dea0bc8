package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
)

// Rule is one row of the audit catalogue: a configuration key, the predicate
// that decides whether its current value is insecure, and how to report it.
// Rules are plain values; a catalogue is never mutated after startup.
type Rule struct {
	// ID is the unique, stable identifier used by policy files
	// (e.g. "REDIS_REQUIREPASS_MISSING").
	ID string `yaml:"id" json:"id"`

	// Key is the configuration parameter passed to CONFIG GET.
	Key string `yaml:"key" json:"key"`

	Predicate Predicate `yaml:"predicate" json:"predicate"`

	// Message is the human-readable violation text placed in the report.
	Message string `yaml:"message" json:"message"`

	Severity models.Severity `yaml:"severity" json:"severity"`

	// Recommendation is optional remediation guidance.
	Recommendation string `yaml:"recommendation,omitempty" json:"recommendation,omitempty"`
}

// Validate checks that every required field is set and the predicate is sound.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule for key %q: id is required", r.Key)
	}
	if r.Key == "" {
		return fmt.Errorf("rule %s: key is required", r.ID)
	}
	if r.Message == "" {
		return fmt.Errorf("rule %s: message is required", r.ID)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("rule %s: invalid severity %q", r.ID, r.Severity)
	}
	if err := r.Predicate.Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	return nil
}

// RuleRegistry holds an ordered catalogue of rules.
type RuleRegistry interface {
	// Register adds a rule to the registry. Panics on duplicate ID or key.
	Register(rule Rule)

	// All returns all registered rules in registration order.
	All() []Rule

	// Len returns the number of registered rules.
	Len() int
}
