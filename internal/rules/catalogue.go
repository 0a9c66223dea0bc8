package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogueFile is the on-disk shape of a custom rule catalogue:
//
//	version: 1
//	name: hardened
//	rules:
//	  - id: REDIS_REQUIREPASS_MISSING
//	    key: requirepass
//	    predicate: { kind: empty }
//	    message: requirepass is missing
//	    severity: CRITICAL
type CatalogueFile struct {
	Version int    `yaml:"version"`
	Name    string `yaml:"name"`
	Rules   []Rule `yaml:"rules"`
}

// LoadCatalogue reads a YAML catalogue from path and validates every rule.
// All validation errors are joined into the returned error.
func LoadCatalogue(path string) (*CatalogueFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalogue(data)
}

// ParseCatalogue decodes and validates a YAML catalogue document.
func ParseCatalogue(data []byte) (*CatalogueFile, error) {
	var cat CatalogueFile
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}

	if cat.Version != 1 {
		return nil, errors.New("unsupported catalogue version")
	}
	if len(cat.Rules) == 0 {
		return nil, errors.New("catalogue contains no rules")
	}
	if cat.Name == "" {
		cat.Name = "custom"
	}

	if errs := ValidateCatalogue(cat.Rules); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cat, nil
}

// ValidateCatalogue checks every rule and the uniqueness of IDs and keys.
// It never stops at the first error.
func ValidateCatalogue(rs []Rule) []error {
	var errs []error
	ids := make(map[string]struct{}, len(rs))
	keys := make(map[string]struct{}, len(rs))
	for i, rule := range rs {
		if err := rule.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		if _, dup := ids[rule.ID]; dup {
			errs = append(errs, fmt.Errorf("rules[%d]: duplicate rule ID %q", i, rule.ID))
		}
		if _, dup := keys[rule.Key]; dup {
			errs = append(errs, fmt.Errorf("rules[%d]: duplicate key %q", i, rule.Key))
		}
		ids[rule.ID] = struct{}{}
		keys[rule.Key] = struct{}{}
	}
	return errs
}
