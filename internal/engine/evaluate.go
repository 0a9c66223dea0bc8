package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// Result is the outcome of one evaluation pass over one snapshot.
type Result struct {
	Target  string
	Buckets *Buckets

	// RulesEvaluated counts rules whose key was present in the index.
	RulesEvaluated int

	// MissingKeys lists catalogue keys absent from the index, in catalogue order.
	MissingKeys []string

	DecodeWarnings []redisprov.DecodeWarning
}

// Evaluate walks rs in order, looks up each rule's key in ix, and files a
// finding into a fresh bucket set for every predicate that matches.
// Absent keys are skipped. Evaluate has no side effects outside the returned
// Result.
func Evaluate(rs []rules.Rule, ix redisprov.Index, target string) *Result {
	res := &Result{Target: target, Buckets: NewBuckets()}
	now := time.Now().UTC()
	for _, rule := range rs {
		value, ok := ix.Lookup(rule.Key)
		if !ok {
			res.MissingKeys = append(res.MissingKeys, rule.Key)
			continue
		}
		res.RulesEvaluated++
		if !rule.Predicate.Insecure(value) {
			continue
		}
		res.Buckets.Add(models.Finding{
			ID:             fmt.Sprintf("%s-%s", rule.ID, target),
			RuleID:         rule.ID,
			ConfigKey:      rule.Key,
			Target:         target,
			Severity:       rule.Severity,
			Message:        rule.Message,
			Recommendation: rule.Recommendation,
			DetectedAt:     now,
		})
	}
	return res
}

// Audit runs the full pipeline for one target: one CONFIG GET for the
// distinct keys of rs, index construction, and evaluation. The only error it
// returns is a *redisprov.FetchError from the fetch stage.
//
// All working state (index and buckets) is local to the call, so concurrent
// Audits against different clients never observe each other's findings.
func Audit(ctx context.Context, client redisprov.ConfigClient, rs []rules.Rule, target string) (*Result, error) {
	log := slog.With("target", target)

	log.DebugContext(ctx, "audit stage", "stage", StageFetching, "keys", len(rs))
	snapshot, err := redisprov.FetchConfig(ctx, client, target, rules.DistinctKeys(rs))
	if err != nil {
		log.DebugContext(ctx, "audit stage", "stage", StageFailed, "err", err)
		return nil, err
	}

	log.DebugContext(ctx, "audit stage", "stage", StageIndexing, "pairs", snapshot.Len())
	ix, warnings := redisprov.BuildIndex(snapshot)
	for _, w := range warnings {
		log.WarnContext(ctx, "dropped undecodable config pair", "detail", w.String())
	}

	log.DebugContext(ctx, "audit stage", "stage", StageEvaluating, "indexed", len(ix))
	res := Evaluate(rs, ix, target)
	res.DecodeWarnings = warnings
	if len(res.MissingKeys) > 0 {
		log.DebugContext(ctx, "config keys not reported by server", "keys", res.MissingKeys)
	}
	return res, nil
}
