package models

import (
	"fmt"
	"strings"
	"time"
)

// Severity represents the impact level of a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityWarning  Severity = "WARNING"
)

// Severities returns every severity level in report order, most severe first.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityWarning}
}

// Rank returns the sort key for s (lower = more severe).
// Unknown severities rank after WARNING.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityWarning:
		return 2
	default:
		return 3
	}
}

// Valid reports whether s is one of the recognised severity levels.
func (s Severity) Valid() bool {
	return s.Rank() < 3
}

// ParseSeverity converts s to a Severity, ignoring case and surrounding spaces.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	if !sev.Valid() {
		return "", fmt.Errorf("invalid severity %q; valid values: CRITICAL, HIGH, WARNING", s)
	}
	return sev, nil
}

// UnmarshalYAML lets catalogue and policy files spell severities in any case.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Finding is a single insecure configuration setting detected on a target.
// It is the atomic output unit of the rule evaluator.
//
// The configured value is intentionally absent: keys such as requirepass
// hold secrets and must never reach a report.
type Finding struct {
	ID             string    `json:"id"`
	RuleID         string    `json:"rule_id"`
	ConfigKey      string    `json:"config_key"`
	Target         string    `json:"target"`
	Severity       Severity  `json:"severity"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation,omitempty"`
	DetectedAt     time.Time `json:"detected_at"`
}

// SeverityGroup is one non-empty severity bucket as it appears in a report:
// the severity label followed by its violation messages in catalogue order.
type SeverityGroup struct {
	Severity Severity `json:"severity"`
	Messages []string `json:"messages"`
}

// AuditSummary aggregates counts across all findings of one audit.
type AuditSummary struct {
	TotalFindings    int `json:"total_findings"`
	CriticalFindings int `json:"critical_findings"`
	HighFindings     int `json:"high_findings"`
	WarningFindings  int `json:"warning_findings"`

	// RulesEvaluated counts rules whose key was present in the snapshot.
	RulesEvaluated int `json:"rules_evaluated"`

	// KeysMissing counts catalogue keys the target did not return.
	KeysMissing int `json:"keys_missing"`

	// DecodeWarnings counts reply pairs dropped because they were not strings.
	DecodeWarnings int `json:"decode_warnings"`
}

// AuditReport is the top-level output of one audit of one target.
type AuditReport struct {
	ReportID    string       `json:"report_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	AuditType   string       `json:"audit_type"`
	Target      string       `json:"target"`
	Catalogue   string       `json:"catalogue"`
	Summary     AuditSummary `json:"summary"`

	// Groups is the severity-partitioned report: non-empty buckets only,
	// always ordered CRITICAL, HIGH, WARNING.
	Groups []SeverityGroup `json:"groups"`

	// Findings carries the same violations with rule metadata, ordered by
	// severity and then catalogue order.
	Findings []Finding `json:"findings"`

	// Metadata carries optional, audit-specific key/value pairs.
	// Kubernetes audits set "namespace" and "pod".
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Empty reports whether the audit produced no findings at all.
func (r *AuditReport) Empty() bool {
	return len(r.Groups) == 0
}
