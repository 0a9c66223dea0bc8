package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/policy"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// DefaultEngine is the production implementation of Engine.
// It coordinates the configuration fetch, rule evaluation, and report assembly.
// It never talks to Redis directly; connections come from the ClientProvider.
type DefaultEngine struct {
	provider  redisprov.ClientProvider
	registry  rules.RuleRegistry
	catalogue string
	policy    *policy.PolicyConfig
}

// NewDefaultEngine constructs a DefaultEngine wired to the supplied client
// provider, rule catalogue, and optional policy. catalogue is the display
// name of the rule set (e.g. "redis").
func NewDefaultEngine(
	provider redisprov.ClientProvider,
	registry rules.RuleRegistry,
	catalogue string,
	policyCfg *policy.PolicyConfig,
) *DefaultEngine {
	return &DefaultEngine{
		provider:  provider,
		registry:  registry,
		catalogue: catalogue,
		policy:    policyCfg,
	}
}

// RunAudit implements Engine. It applies the policy to a copy of the
// catalogue, audits opts.Target with a single CONFIG GET, and returns the
// assembled report. A fetch failure returns an error and no report.
func (e *DefaultEngine) RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	client, err := e.provider.ClientFor(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("open client for %s: %w", opts.Target, err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			slog.Debug("close redis client", "target", opts.Target.String(), "err", cerr)
		}
	}()

	active := policy.ApplyPolicy(e.registry.All(), e.policy)

	res, err := Audit(ctx, client, active, opts.Target.String())
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "audit stage", "target", opts.Target.String(), "stage", StageReporting)
	report := buildReport(res, e.catalogue, opts.Metadata)
	slog.DebugContext(ctx, "audit stage", "target", opts.Target.String(), "stage", StageDone, "findings", report.Summary.TotalFindings)
	return report, nil
}

// buildReport assembles the AuditReport for one evaluation result.
func buildReport(res *Result, catalogue string, metadata map[string]any) *models.AuditReport {
	report := &models.AuditReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		AuditType:   AuditTypeRedisConfig,
		Target:      res.Target,
		Catalogue:   catalogue,
		Summary:     computeSummary(res),
		Groups:      res.Buckets.Groups(),
		Findings:    res.Buckets.Findings(),
	}
	if len(metadata) > 0 {
		report.Metadata = make(map[string]any, len(metadata))
		for k, v := range metadata {
			report.Metadata[k] = v
		}
	}
	return report
}

// computeSummary aggregates finding counts per severity and pipeline counters.
func computeSummary(res *Result) models.AuditSummary {
	return models.AuditSummary{
		TotalFindings:    res.Buckets.Len(),
		CriticalFindings: res.Buckets.Count(models.SeverityCritical),
		HighFindings:     res.Buckets.Count(models.SeverityHigh),
		WarningFindings:  res.Buckets.Count(models.SeverityWarning),
		RulesEvaluated:   res.RulesEvaluated,
		KeysMissing:      len(res.MissingKeys),
		DecodeWarnings:   len(res.DecodeWarnings),
	}
}
