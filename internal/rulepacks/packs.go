// Package rulepacks resolves built-in rule packs by name.
package rulepacks

import (
	"fmt"
	"sort"

	"github.com/pankaj-dahiya-devops/redisguard/internal/rulepacks/baseline"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rulepacks/redis"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// Default is the pack used when --pack is not given.
const Default = redis.Name

var packs = map[string]func() []rules.Rule{
	redis.Name:    redis.New,
	baseline.Name: baseline.New,
}

// ByName returns a fresh copy of the named pack's rules.
func ByName(name string) ([]rules.Rule, error) {
	newPack, ok := packs[name]
	if !ok {
		return nil, fmt.Errorf("unknown rule pack %q; available: %v", name, Names())
	}
	return newPack(), nil
}

// Names returns the built-in pack names, sorted.
func Names() []string {
	names := make([]string, 0, len(packs))
	for name := range packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllRuleIDs returns the union of rule IDs across every built-in pack,
// in first-seen order. Policy validation uses it when no custom catalogue
// is loaded.
func AllRuleIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, name := range Names() {
		for _, r := range packs[name]() {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
			ids = append(ids, r.ID)
		}
	}
	return ids
}
