package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/redisguard/internal/engine"
	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	"github.com/pankaj-dahiya-devops/redisguard/internal/output"
	"github.com/pankaj-dahiya-devops/redisguard/internal/policy"
	s3export "github.com/pankaj-dahiya-devops/redisguard/internal/providers/aws/s3"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rulepacks"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

const defaultTimeout = 5 * time.Second

func newAuditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [host:port ...]",
		Short: "Audit the configuration of one or more Redis servers",
		Long: `Fetch the configuration of each target with a single CONFIG GET and report
every insecure setting, grouped by severity (CRITICAL, HIGH, WARNING).

Targets come from positional arguments, --addr, RGUARD_ADDR or the config
file. The exit status is 1 when a target cannot be audited or when the
policy's enforcement threshold is reached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs := a.cfg.Addr
			if len(args) > 0 {
				addrs = args
			}
			targets, err := parseTargets(addrs)
			if err != nil {
				return err
			}
			return a.runAudit(cmd.Context(), cmd.OutOrStdout(), targets, nil)
		},
	}
	cmd.Flags().StringSlice("addr", []string{"127.0.0.1:6379"}, "Target address(es), host[:port]")
	addConnectionFlags(cmd.Flags())
	addCatalogueFlags(cmd.Flags())
	addReportFlags(cmd.Flags())
	return cmd
}

// parseTargets normalises addrs, rejecting duplicates.
func parseTargets(addrs []string) ([]redisprov.Target, error) {
	if len(addrs) == 0 {
		return nil, errors.New("no targets: pass host:port arguments or --addr")
	}
	seen := make(map[string]bool, len(addrs))
	targets := make([]redisprov.Target, 0, len(addrs))
	for _, addr := range addrs {
		t, err := redisprov.ParseTarget(strings.TrimSpace(addr))
		if err != nil {
			return nil, err
		}
		if seen[t.Addr] {
			continue
		}
		seen[t.Addr] = true
		targets = append(targets, t)
	}
	return targets, nil
}

// loadCatalogue resolves the active rule set: a YAML catalogue file when
// configured, otherwise a built-in pack. It returns the catalogue name.
func (a *app) loadCatalogue() (string, []rules.Rule, error) {
	if a.cfg.Catalogue != "" {
		cat, err := rules.LoadCatalogue(a.cfg.Catalogue)
		if err != nil {
			return "", nil, fmt.Errorf("load catalogue %q: %w", a.cfg.Catalogue, err)
		}
		return cat.Name, cat.Rules, nil
	}
	rs, err := rulepacks.ByName(a.cfg.Pack)
	if err != nil {
		return "", nil, err
	}
	return a.cfg.Pack, rs, nil
}

// loadPolicy loads --policy, or rguard.yaml from the working directory when
// present, and validates it against catalogue.
func (a *app) loadPolicy(catalogue []rules.Rule) (*policy.PolicyConfig, error) {
	var (
		cfg *policy.PolicyConfig
		err error
	)
	if a.cfg.Policy != "" {
		cfg, err = policy.LoadPolicy(a.cfg.Policy)
	} else {
		cfg, err = policy.LoadOptional(policy.DefaultPolicyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	if cfg == nil {
		return nil, nil
	}
	if errs := policy.ValidateAgainst(cfg, catalogue); len(errs) > 0 {
		return nil, fmt.Errorf("invalid policy: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// runAudit audits targets, renders the results to w, exports the JSON report
// when --output is set, and maps failures onto the exit status. annotate,
// when non-nil, may add metadata to the report of targets[i].
func (a *app) runAudit(ctx context.Context, w io.Writer, targets []redisprov.Target, annotate func(i int, r *models.AuditReport)) error {
	name, catalogue, err := a.loadCatalogue()
	if err != nil {
		return err
	}
	pol, err := a.loadPolicy(catalogue)
	if err != nil {
		return err
	}

	eng := engine.NewDefaultEngine(
		a.newRedisProvider(a.clientOptions()),
		rules.NewRegistry(catalogue...),
		name,
		pol,
	)
	runner := engine.NewMultiTargetRunner(eng, a.cfg.Concurrency)

	slog.Debug("starting audit", "targets", len(targets), "catalogue", name, "rules", len(catalogue))
	results, err := runner.RunAll(ctx, targets, engine.AuditOptions{Timeout: a.cfg.Timeout})
	if err != nil {
		return err
	}

	var findings []models.Finding
	for i, r := range results {
		if r.Err != nil {
			slog.Error("audit failed", "target", r.Target.String(), "err", r.Err)
			continue
		}
		if annotate != nil {
			annotate(i, r.Report)
		}
		findings = append(findings, r.Report.Findings...)
	}

	if err := renderResults(w, a.cfg.Report, a.cfg.Summary, a.cfg.Color, results); err != nil {
		return err
	}
	if a.cfg.Output != "" {
		if err := a.exportReport(ctx, results); err != nil {
			return err
		}
	}

	if failed := engine.Failed(results); len(failed) > 0 {
		return &exitError{code: 1, err: fmt.Errorf("%d of %d targets could not be audited", len(failed), len(results))}
	}
	if policy.ShouldFail(findings, pol) {
		return &exitError{code: 1, err: fmt.Errorf("policy enforcement: findings at or above %s", strings.ToUpper(pol.Enforcement.FailOnSeverity))}
	}
	return nil
}

// jsonResult is the per-target JSON shape used when several targets are audited.
type jsonResult struct {
	Target string              `json:"target"`
	Report *models.AuditReport `json:"report,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// renderResults writes results in the requested format.
func renderResults(w io.Writer, format string, summary, colored bool, results []engine.TargetResult) error {
	if format == string(engine.ReportFormatJSON) {
		if len(results) == 1 && results[0].Err == nil {
			return output.WriteJSON(w, results[0].Report)
		}
		out := make([]jsonResult, len(results))
		for i, r := range results {
			out[i] = jsonResult{Target: r.Target.String(), Report: r.Report}
			if r.Err != nil {
				out[i].Error = r.Err.Error()
			}
		}
		return output.WriteJSON(w, out)
	}

	multi := len(results) > 1
	for i, r := range results {
		if multi {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", r.Target)
		}
		switch {
		case r.Err != nil && format == string(engine.ReportFormatTable):
			fmt.Fprintf(w, "Target: %s  ERROR: %v\n", r.Target, r.Err)
		case r.Err != nil:
			output.RenderRESPError(w, redisprov.ErrFetchConfig)
		case summary:
			output.RenderSummary(w, r.Report)
		case format == string(engine.ReportFormatTable):
			output.RenderTable(w, r.Report, output.TableOptions{Colored: colored, IncludeRecommendation: true})
		default:
			output.RenderRESP(w, r.Report.Groups)
		}
	}
	return nil
}

// exportReport writes the successful reports as JSON to --output: a local
// file, or an S3 object for s3:// destinations.
func (a *app) exportReport(ctx context.Context, results []engine.TargetResult) error {
	var payload any
	reports := make([]*models.AuditReport, 0, len(results))
	for _, r := range results {
		if r.Report != nil {
			reports = append(reports, r.Report)
		}
	}
	if len(results) == 1 && len(reports) == 1 {
		payload = reports[0]
	} else {
		payload = reports
	}

	if !s3export.IsS3URI(a.cfg.Output) {
		return output.WriteReportToFile(a.cfg.Output, payload)
	}

	loc, err := s3export.ParseS3URI(a.cfg.Output)
	if err != nil {
		return err
	}
	data, err := output.MarshalReport(payload)
	if err != nil {
		return err
	}
	sess, err := a.awsLoader.Load(ctx, a.cfg.AWSProfile, a.cfg.AWSRegion)
	if err != nil {
		return err
	}
	if err := s3export.NewUploader(sess.Clients.S3).Upload(ctx, loc, data, "application/json"); err != nil {
		return err
	}
	slog.Info("report exported", "destination", loc.String(), "profile", sess.ProfileName)
	return nil
}
