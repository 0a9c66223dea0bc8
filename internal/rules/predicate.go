package rules

import (
	"fmt"
	"strings"
)

// PredicateKind selects the comparison strategy a Predicate applies.
type PredicateKind string

const (
	// KindEquals flags a value equal to the single insecure value.
	KindEquals PredicateKind = "equals"

	// KindEmpty flags an empty value (setting present but unset).
	KindEmpty PredicateKind = "empty"

	// KindContains flags a value containing any of the unsafe substrings.
	KindContains PredicateKind = "contains"

	// KindNotRenamed flags a dangerous command whose rename target is empty or
	// the command's own name.
	KindNotRenamed PredicateKind = "not_renamed"
)

// Predicate decides whether a configuration value is insecure.
// It is a closed tagged variant: Kind selects the strategy and Values carries
// that strategy's parameters. Predicates are pure and safe for concurrent use.
type Predicate struct {
	Kind   PredicateKind `yaml:"kind"   json:"kind"`
	Values []string      `yaml:"values,omitempty" json:"values,omitempty"`
}

// Equals returns a predicate that flags value == insecure.
func Equals(insecure string) Predicate {
	return Predicate{Kind: KindEquals, Values: []string{insecure}}
}

// Empty returns a predicate that flags the empty string.
func Empty() Predicate {
	return Predicate{Kind: KindEmpty}
}

// Contains returns a predicate that flags values containing any of substrings.
func Contains(substrings ...string) Predicate {
	return Predicate{Kind: KindContains, Values: substrings}
}

// NotRenamed returns a predicate for the rename target of command. The value is
// insecure when it is empty or still names command itself.
func NotRenamed(command string) Predicate {
	return Predicate{Kind: KindNotRenamed, Values: []string{command}}
}

// Insecure reports whether value violates the predicate.
// An empty value is a real value here, not "key absent"; callers only invoke
// Insecure for keys present in the snapshot. Unknown kinds never match.
func (p Predicate) Insecure(value string) bool {
	switch p.Kind {
	case KindEquals:
		return len(p.Values) > 0 && value == p.Values[0]
	case KindEmpty:
		return value == ""
	case KindContains:
		for _, sub := range p.Values {
			if sub != "" && strings.Contains(value, sub) {
				return true
			}
		}
		return false
	case KindNotRenamed:
		if value == "" {
			return true
		}
		// Redis command names are case-insensitive, so "flushall" is still FLUSHALL.
		return len(p.Values) > 0 && strings.EqualFold(value, p.Values[0])
	default:
		return false
	}
}

// Validate checks that the kind is known and carries the parameters it needs.
func (p Predicate) Validate() error {
	switch p.Kind {
	case KindEmpty:
		if len(p.Values) > 0 {
			return fmt.Errorf("predicate %q takes no values, got %d", p.Kind, len(p.Values))
		}
		return nil
	case KindEquals, KindNotRenamed:
		if len(p.Values) != 1 {
			return fmt.Errorf("predicate %q requires exactly one value, got %d", p.Kind, len(p.Values))
		}
		if p.Kind == KindNotRenamed && p.Values[0] == "" {
			return fmt.Errorf("predicate %q requires a command name", p.Kind)
		}
		return nil
	case KindContains:
		if len(p.Values) == 0 {
			return fmt.Errorf("predicate %q requires at least one substring", p.Kind)
		}
		for _, v := range p.Values {
			if v == "" {
				return fmt.Errorf("predicate %q: empty substring matches everything", p.Kind)
			}
		}
		return nil
	case "":
		return fmt.Errorf("predicate kind is missing")
	default:
		return fmt.Errorf("unknown predicate kind %q; valid values: equals, empty, contains, not_renamed", p.Kind)
	}
}

// String renders the predicate for the rules listing, e.g. equals("no").
func (p Predicate) String() string {
	quoted := make([]string, len(p.Values))
	for i, v := range p.Values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%s(%s)", p.Kind, strings.Join(quoted, ", "))
}
