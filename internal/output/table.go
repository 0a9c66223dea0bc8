package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// ANSI color codes for severity output (used when Colored=true).
const (
	ansiReset   = "\033[0m"
	ansiBoldRed = "\033[1;31m"
	ansiRed     = "\033[0;31m"
	ansiYellow  = "\033[0;33m"
)

// TableOptions controls which columns RenderTable renders and how severity is coloured.
type TableOptions struct {
	// Colored wraps severity labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// IncludeRecommendation adds a RECOMMENDATION column.
	IncludeRecommendation bool

	// IncludeTarget adds a TARGET column (useful when several reports are merged).
	IncludeTarget bool
}

// ColorSeverity wraps a severity string with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorSeverity(sev models.Severity, colored bool) string {
	s := string(sev)
	if !colored {
		return s
	}
	switch sev {
	case models.SeverityCritical:
		return ansiBoldRed + s + ansiReset
	case models.SeverityHigh:
		return ansiRed + s + ansiReset
	case models.SeverityWarning:
		return ansiYellow + s + ansiReset
	default:
		return s
	}
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// RenderHeader writes the one-line report header to w.
func RenderHeader(w io.Writer, report *models.AuditReport) {
	s := report.Summary
	fmt.Fprintf(w,
		"Target: %s  Catalogue: %s  Findings: %d (critical %d, high %d, warning %d)\n",
		report.Target, report.Catalogue, s.TotalFindings,
		s.CriticalFindings, s.HighFindings, s.WarningFindings,
	)
}

// RenderTable writes the report header followed by a findings table to w.
// Findings keep report order: severity first, then catalogue order.
//
// Column order:
//
//	[TARGET]  SEVERITY  RULE  KEY  MESSAGE  [RECOMMENDATION]
func RenderTable(w io.Writer, report *models.AuditReport, opts TableOptions) {
	RenderHeader(w, report)

	if len(report.Findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	const wMessage = 55

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{}
	if opts.IncludeTarget {
		header = append(header, "TARGET")
	}
	header = append(header, "SEVERITY", "RULE", "KEY", "MESSAGE")
	if opts.IncludeRecommendation {
		header = append(header, "RECOMMENDATION")
	}
	tw.AppendHeader(header)

	for _, f := range report.Findings {
		row := table.Row{}
		if opts.IncludeTarget {
			row = append(row, f.Target)
		}
		row = append(row,
			ColorSeverity(f.Severity, opts.Colored),
			f.RuleID,
			f.ConfigKey,
			ShortenMessage(f.Message, wMessage),
		)
		if opts.IncludeRecommendation {
			row = append(row, f.Recommendation)
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

// RenderSummary writes a compact per-severity breakdown for report to w.
func RenderSummary(w io.Writer, report *models.AuditReport) {
	s := report.Summary

	fmt.Fprintf(w, "Target:     %s\n", report.Target)
	fmt.Fprintf(w, "Catalogue:  %s\n", report.Catalogue)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Findings:   %d\n", s.TotalFindings)
	fmt.Fprintf(w, "Rules Evaluated:  %d\n", s.RulesEvaluated)
	fmt.Fprintf(w, "Keys Missing:     %d\n", s.KeysMissing)
	if s.DecodeWarnings > 0 {
		fmt.Fprintf(w, "Decode Warnings:  %d\n", s.DecodeWarnings)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Severity Breakdown")
	fmt.Fprintf(w, "  %-10s  %d\n", models.SeverityCritical, s.CriticalFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", models.SeverityHigh, s.HighFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", models.SeverityWarning, s.WarningFindings)
}

// RenderRules writes the catalogue as a table: one row per rule in
// evaluation order.
func RenderRules(w io.Writer, catalogue []rules.Rule, colored bool) {
	if len(catalogue) == 0 {
		fmt.Fprintln(w, "No rules.")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "ID", "KEY", "CHECK", "SEVERITY", "MESSAGE"})
	for i, r := range catalogue {
		tw.AppendRow(table.Row{
			i + 1,
			r.ID,
			r.Key,
			r.Predicate.String(),
			ColorSeverity(r.Severity, colored),
			r.Message,
		})
	}
	tw.Render()
	fmt.Fprintf(w, "%d rules, %d distinct keys\n", len(catalogue), len(rules.DistinctKeys(catalogue)))
}
