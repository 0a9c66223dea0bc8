package policy

import "testing"

func TestGetValues_NilConfig(t *testing.T) {
	got := GetValues("REDIS_PORT_DEFAULT", []string{"6379"}, nil)
	if len(got) != 1 || got[0] != "6379" {
		t.Errorf("got %v; want default", got)
	}
}

func TestGetValues_RuleAbsent(t *testing.T) {
	cfg := &PolicyConfig{Rules: map[string]RuleConfig{}}
	got := GetValues("REDIS_PORT_DEFAULT", []string{"6379"}, cfg)
	if len(got) != 1 || got[0] != "6379" {
		t.Errorf("got %v; want default", got)
	}
}

func TestGetValues_EmptyOverrideKeepsDefault(t *testing.T) {
	cfg := &PolicyConfig{Rules: map[string]RuleConfig{
		"REDIS_PORT_DEFAULT": {Severity: "HIGH"},
	}}
	got := GetValues("REDIS_PORT_DEFAULT", []string{"6379"}, cfg)
	if len(got) != 1 || got[0] != "6379" {
		t.Errorf("got %v; want default", got)
	}
}

func TestGetValues_Override(t *testing.T) {
	cfg := &PolicyConfig{Rules: map[string]RuleConfig{
		"REDIS_BIND_ALL_INTERFACES": {Values: []string{"0.0.0.0", "*"}},
	}}
	got := GetValues("REDIS_BIND_ALL_INTERFACES", []string{"0.0.0.0"}, cfg)
	if len(got) != 2 || got[1] != "*" {
		t.Errorf("got %v; want override", got)
	}

	// The returned slice must not alias the policy's slice.
	got[0] = "changed"
	if cfg.Rules["REDIS_BIND_ALL_INTERFACES"].Values[0] != "0.0.0.0" {
		t.Error("GetValues returned an aliased slice")
	}
}
