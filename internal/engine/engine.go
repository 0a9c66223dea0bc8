package engine

import (
	"context"
	"time"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

// AuditTypeRedisConfig is the AuditReport.AuditType of a configuration audit.
const AuditTypeRedisConfig = "redis-config"

// ReportFormat controls the CLI output format.
type ReportFormat string

const (
	ReportFormatRESP  ReportFormat = "resp"
	ReportFormatTable ReportFormat = "table"
	ReportFormatJSON  ReportFormat = "json"
)

// Stage is a step of the per-invocation audit state machine:
// FETCHING → INDEXING → EVALUATING → REPORTING → DONE.
// Only FETCHING can fail.
type Stage string

const (
	StageFetching   Stage = "FETCHING"
	StageIndexing   Stage = "INDEXING"
	StageEvaluating Stage = "EVALUATING"
	StageReporting  Stage = "REPORTING"
	StageDone       Stage = "DONE"
	StageFailed     Stage = "FAILED"
)

// AuditOptions configures a single audit run.
// It is the sole input to Engine.RunAudit.
type AuditOptions struct {
	// Target is the Redis instance to audit.
	Target redisprov.Target

	// Timeout bounds the whole invocation. Zero means no deadline beyond the
	// caller's context.
	Timeout time.Duration

	// Metadata is copied verbatim into the report.
	Metadata map[string]any
}

// Engine is the central orchestration interface.
// It coordinates the configuration fetch, rule evaluation, and report
// assembly for one target, returning a fully populated AuditReport.
type Engine interface {
	RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error)
}
