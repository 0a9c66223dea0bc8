package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/redisguard/internal/policy"
	s3export "github.com/pankaj-dahiya-devops/redisguard/internal/providers/aws/s3"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
	"github.com/pankaj-dahiya-devops/redisguard/internal/rules"
)

// TargetCheck is the reachability result for one target.
type TargetCheck struct {
	Target    string `json:"target"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// DoctorResult is the structured output of rguard doctor. It can be serialised
// to JSON via --format=json or rendered as a human-readable table (default).
type DoctorResult struct {
	Targets []TargetCheck `json:"targets"`

	Catalogue struct {
		Name  string `json:"name,omitempty"`
		Rules int    `json:"rules"`
		Valid bool   `json:"valid"`
		Error string `json:"error,omitempty"`
	} `json:"catalogue"`

	Policy struct {
		Path    string   `json:"path"`
		Present bool     `json:"present"`
		Valid   bool     `json:"valid"`
		Errors  []string `json:"errors,omitempty"`
	} `json:"policy"`

	// AWS is only probed when --output names an s3:// destination.
	AWS struct {
		Required    bool   `json:"required"`
		Profile     string `json:"profile,omitempty"`
		Credentials bool   `json:"credentials_ok"`
		AccountID   string `json:"account_id,omitempty"`
		Error       string `json:"error,omitempty"`
	} `json:"aws"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [host:port ...]",
		Short: "Run environment diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			addrs := a.cfg.Addr
			if len(args) > 0 {
				addrs = args
			}
			result, err := a.runDoctor(cmd.Context(), cmd.OutOrStdout(), format, addrs)
			if err != nil {
				// Rendering failure.
				return err
			}
			if !result.OverallHealthy {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().String("format", "table", `Output format: "table" or "json"`)
	cmd.Flags().StringSlice("addr", []string{"127.0.0.1:6379"}, "Target address(es) to PING")
	addConnectionFlags(cmd.Flags())
	addCatalogueFlags(cmd.Flags())
	cmd.Flags().String("output", "", "Report destination; s3:// enables the AWS credential check")
	cmd.Flags().String("aws-profile", "", "AWS profile for the credential check")
	cmd.Flags().String("aws-region", "", "AWS region for the credential check")
	return cmd
}

// runDoctor collects all diagnostic results, renders them to w in the
// requested format, and returns the result.
// The returned error covers only rendering failures; callers inspect
// result.OverallHealthy for the verdict.
func (a *app) runDoctor(ctx context.Context, w io.Writer, format string, addrs []string) (DoctorResult, error) {
	result := a.collectDoctorResult(ctx, addrs)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return result, fmt.Errorf("encode doctor result: %w", err)
		}
	default:
		renderDoctorTable(result, w)
	}
	return result, nil
}

// collectDoctorResult runs all environment checks and populates a DoctorResult.
// It performs no rendering.
func (a *app) collectDoctorResult(ctx context.Context, addrs []string) DoctorResult {
	var result DoctorResult

	// Targets: parse → connect → PING, each bounded by --timeout.
	provider := a.newRedisProvider(a.clientOptions())
	targetsOK := len(addrs) > 0
	for _, addr := range addrs {
		check := pingTarget(ctx, provider, addr, a.cfg.Timeout)
		targetsOK = targetsOK && check.Reachable
		result.Targets = append(result.Targets, check)
	}

	// Catalogue: load → validate.
	name, catalogue, err := a.loadCatalogue()
	if err != nil {
		result.Catalogue.Error = err.Error()
	} else if errs := rules.ValidateCatalogue(catalogue); len(errs) > 0 {
		result.Catalogue.Name = name
		result.Catalogue.Error = errors.Join(errs...).Error()
	} else {
		result.Catalogue.Name = name
		result.Catalogue.Rules = len(catalogue)
		result.Catalogue.Valid = true
	}

	// Policy: stat → load → validate (file is optional unless --policy is set).
	result.Policy.Path = a.cfg.Policy
	if result.Policy.Path == "" {
		result.Policy.Path = policy.DefaultPolicyFile
	}
	_, statErr := os.Stat(result.Policy.Path)
	switch {
	case statErr == nil:
		result.Policy.Present = true
		cfg, loadErr := policy.LoadPolicy(result.Policy.Path)
		if loadErr != nil {
			result.Policy.Errors = []string{loadErr.Error()}
			break
		}
		errs := policy.ValidateAgainst(cfg, catalogue)
		if len(errs) == 0 {
			result.Policy.Valid = true
		}
		for _, e := range errs {
			result.Policy.Errors = append(result.Policy.Errors, e.Error())
		}
	case a.cfg.Policy != "" || !os.IsNotExist(statErr):
		result.Policy.Errors = []string{statErr.Error()}
	}
	policyOK := result.Policy.Valid || (!result.Policy.Present && len(result.Policy.Errors) == 0)

	// AWS: only when reports are exported to S3.
	awsOK := true
	if s3export.IsS3URI(a.cfg.Output) {
		result.AWS.Required = true
		result.AWS.Profile = a.cfg.AWSProfile
		sess, err := a.awsLoader.Load(ctx, a.cfg.AWSProfile, a.cfg.AWSRegion)
		if err == nil {
			var id s3export.Identity
			id, err = s3export.CallerIdentity(ctx, sess.Clients.STS)
			result.AWS.AccountID = id.Account
		}
		if err != nil {
			result.AWS.Error = err.Error()
		} else {
			result.AWS.Credentials = true
		}
		awsOK = result.AWS.Credentials
	}

	result.OverallHealthy = targetsOK && result.Catalogue.Valid && policyOK && awsOK
	return result
}

// pingTarget opens a client for addr and issues PING.
func pingTarget(ctx context.Context, provider redisprov.ClientProvider, addr string, timeout time.Duration) TargetCheck {
	check := TargetCheck{Target: addr}
	target, err := redisprov.ParseTarget(addr)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Target = target.String()

	client, err := provider.ClientFor(target)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	defer client.Close() //nolint:errcheck

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := client.Ping(ctx); err != nil {
		check.Error = err.Error()
		return check
	}
	check.Reachable = true
	return check
}

// renderDoctorTable writes the human-readable diagnostic output from result to w.
func renderDoctorTable(result DoctorResult, w io.Writer) {
	fmt.Fprintln(w, "Environment Diagnostics")

	fmt.Fprintln(w, "\nRedis:")
	if len(result.Targets) == 0 {
		doctorPrint(w, "Targets", "FAIL", "none configured")
	}
	for _, t := range result.Targets {
		if t.Reachable {
			doctorPrint(w, t.Target, "OK", "")
		} else {
			doctorPrint(w, t.Target, "FAIL", t.Error)
		}
	}

	fmt.Fprintln(w, "\nCatalogue:")
	if result.Catalogue.Valid {
		doctorPrint(w, result.Catalogue.Name, "OK", fmt.Sprintf("%d rules", result.Catalogue.Rules))
	} else {
		doctorPrint(w, "Catalogue", "FAIL", result.Catalogue.Error)
	}

	fmt.Fprintln(w, "\nPolicy:")
	switch {
	case !result.Policy.Present && len(result.Policy.Errors) == 0:
		doctorPrint(w, result.Policy.Path+" present", "Not found (optional)", "")
	case result.Policy.Valid:
		doctorPrint(w, result.Policy.Path+" present", "YES", "")
		doctorPrint(w, "Policy valid", "OK", "")
	default:
		for _, e := range result.Policy.Errors {
			doctorPrint(w, "Policy valid", "FAIL", e)
		}
	}

	if result.AWS.Required {
		if result.AWS.Profile != "" {
			fmt.Fprintf(w, "\nAWS (profile: %s):\n", result.AWS.Profile)
		} else {
			fmt.Fprintln(w, "\nAWS:")
		}
		if result.AWS.Credentials {
			doctorPrint(w, "STS Identity", "OK", "Account: "+result.AWS.AccountID)
		} else {
			doctorPrint(w, "STS Identity", "FAIL", result.AWS.Error)
		}
	}
}

// doctorPrint writes a single diagnostic check line to w.
// When detail is non-empty it is appended in parentheses.
func doctorPrint(w io.Writer, label, status, detail string) {
	if detail != "" {
		fmt.Fprintf(w, "  %s: %s (%s)\n", label, status, detail)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", label, status)
	}
}
