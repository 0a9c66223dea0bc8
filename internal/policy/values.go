package policy

// GetValues returns the configured predicate values for a rule, or
// defaultValues when no override is present. It is safe to call with cfg == nil.
//
// Lookup order:
//  1. cfg == nil → defaultValues
//  2. cfg.Rules[ruleID] absent → defaultValues
//  3. cfg.Rules[ruleID].Values empty → defaultValues
//  4. Otherwise → a copy of the configured values
func GetValues(ruleID string, defaultValues []string, cfg *PolicyConfig) []string {
	if cfg == nil {
		return defaultValues
	}
	rc, ok := cfg.Rules[ruleID]
	if !ok || len(rc.Values) == 0 {
		return defaultValues
	}
	out := make([]string, len(rc.Values))
	copy(out, rc.Values)
	return out
}
