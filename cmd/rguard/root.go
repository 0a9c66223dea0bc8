package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pankaj-dahiya-devops/redisguard/internal/config"
	"github.com/pankaj-dahiya-devops/redisguard/internal/logging"
	s3export "github.com/pankaj-dahiya-devops/redisguard/internal/providers/aws/s3"
	kube "github.com/pankaj-dahiya-devops/redisguard/internal/providers/kubernetes"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

// awsSessionLoader loads the AWS session used for S3 export and the
// doctor identity probe.
type awsSessionLoader interface {
	Load(ctx context.Context, profile, region string) (*s3export.Session, error)
}

// app holds the resolved configuration and the provider constructors.
// Tests replace the constructors with fakes.
type app struct {
	newRedisProvider func(redisprov.ClientOptions) redisprov.ClientProvider
	newKubeProvider  func(kubeconfig string) kube.KubeClientProvider
	awsLoader        awsSessionLoader

	cfg *config.Config
}

func newDefaultApp() *app {
	return &app{
		newRedisProvider: func(opts redisprov.ClientOptions) redisprov.ClientProvider {
			return redisprov.NewDefaultClientProvider(opts)
		},
		newKubeProvider: func(kubeconfig string) kube.KubeClientProvider {
			return kube.NewDefaultKubeClientProvider(kubeconfig)
		},
		awsLoader: s3export.NewLoader(),
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(newDefaultApp())
}

func newRootCmdWith(a *app) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "rguard",
		Short:         "rguard: Redis configuration security auditor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./.rguard.yaml, then $HOME/.rguard.yaml)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newAuditCmd(a),
		newKubernetesCmd(a),
		newRulesCmd(a),
		newDoctorCmd(a),
		newVersionCmd(),
	)
	return root
}

// init resolves the configuration for cmd and installs the logger.
func (a *app) init(cmd *cobra.Command, cfgFile string) error {
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := logging.InitLogger(cmd.ErrOrStderr(), cfg.LogLevel, !cfg.Color); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// clientOptions maps the resolved configuration onto Redis client options.
func (a *app) clientOptions() redisprov.ClientOptions {
	return redisprov.ClientOptions{
		Username:    a.cfg.Username,
		Password:    a.cfg.Password,
		DB:          a.cfg.DB,
		TLS:         a.cfg.TLS,
		TLSInsecure: a.cfg.TLSInsecure,
		DialTimeout: a.cfg.Timeout,
		ReadTimeout: a.cfg.Timeout,
	}
}

// ── shared flag groups ────────────────────────────────────────────────────────

func addConnectionFlags(fs *pflag.FlagSet) {
	fs.String("username", "", "ACL username")
	fs.String("password", "", "Password (prefer RGUARD_PASSWORD)")
	fs.Int("db", 0, "Database number")
	fs.Bool("tls", false, "Connect with TLS")
	fs.Bool("tls-insecure", false, "Skip TLS certificate verification (requires --tls)")
	fs.Duration("timeout", defaultTimeout, "Per-target deadline for connecting and fetching the configuration")
	fs.Int("concurrency", 4, "Maximum number of targets audited in parallel")
}

func addCatalogueFlags(fs *pflag.FlagSet) {
	fs.String("pack", "redis", "Built-in rule pack: redis or baseline")
	fs.String("catalogue", "", "YAML rule catalogue file (overrides --pack)")
	fs.String("policy", "", "Policy file (default: ./rguard.yaml when present)")
}

func addReportFlags(fs *pflag.FlagSet) {
	fs.String("report", "resp", "Output format: resp, table or json")
	fs.Bool("summary", false, "Print a compact severity breakdown instead of the findings")
	fs.Bool("color", false, "Colour severities and logs")
	fs.String("output", "", "Also write the JSON report to this path or s3://bucket/key")
	fs.String("aws-profile", "", "AWS profile for s3:// output (default: credential chain)")
	fs.String("aws-region", "", "AWS region for s3:// output")
}
