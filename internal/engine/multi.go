package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

// DefaultConcurrency caps parallel target audits when the caller passes zero.
const DefaultConcurrency = 4

// TargetResult pairs a target with either its report or the error that
// prevented one. Exactly one of Report and Err is set.
type TargetResult struct {
	Target redisprov.Target
	Report *models.AuditReport
	Err    error
}

// MultiTargetRunner audits several targets with one Engine. Each target is
// an independent invocation with its own working state; a failure on one
// target never affects the others.
type MultiTargetRunner struct {
	engine      Engine
	concurrency int
}

// NewMultiTargetRunner returns a runner that runs at most concurrency audits
// at once. Values below one select DefaultConcurrency.
func NewMultiTargetRunner(eng Engine, concurrency int) *MultiTargetRunner {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &MultiTargetRunner{engine: eng, concurrency: concurrency}
}

// RunAll audits every target and returns one TargetResult per target in the
// input order. Per-target failures are carried in TargetResult.Err. When ctx
// is cancelled the partial results are returned together with ctx.Err().
func (m *MultiTargetRunner) RunAll(ctx context.Context, targets []redisprov.Target, base AuditOptions) ([]TargetResult, error) {
	results := make([]TargetResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for i, target := range targets {
		i, target := i, target
		opts := base
		opts.Target = target
		g.Go(func() error {
			report, err := m.engine.RunAudit(gctx, opts)
			results[i] = TargetResult{Target: target, Report: report, Err: err}
			// Per-target errors travel in results, never through the group.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Failed returns the results that carry an error.
func Failed(results []TargetResult) []TargetResult {
	var failed []TargetResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
