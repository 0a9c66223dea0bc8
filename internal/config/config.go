// Package config loads rguard settings from flags, RGUARD_* environment
// variables and an optional .rguard.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. RGUARD_PASSWORD.
	EnvPrefix = "RGUARD"

	// DefaultConfigName is the config file looked up in the working directory
	// and then $HOME, without extension.
	DefaultConfigName = ".rguard"
)

// Config is the resolved configuration shared by every rguard command.
// Keys match the long flag names.
type Config struct {
	Addr        []string      `mapstructure:"addr"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	TLS         bool          `mapstructure:"tls"`
	TLSInsecure bool          `mapstructure:"tls-insecure"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`

	Pack      string `mapstructure:"pack"`
	Catalogue string `mapstructure:"catalogue"`
	Policy    string `mapstructure:"policy"`

	Report  string `mapstructure:"report"`
	Summary bool   `mapstructure:"summary"`
	Color   bool   `mapstructure:"color"`
	Output  string `mapstructure:"output"`

	AWSProfile string `mapstructure:"aws-profile"`
	AWSRegion  string `mapstructure:"aws-region"`

	LogLevel string `mapstructure:"log-level"`
}

var validReports = []string{"resp", "table", "json"}

// New returns a viper instance seeded with defaults, the environment, and
// the config file. cfgFile overrides the search path; a missing default
// file is not an error, a missing explicit file is.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("no config file found")
	} else {
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// setDefaults registers every key, so environment-only settings are seen by
// Unmarshal as well.
func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", []string{"127.0.0.1:6379"})
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("db", 0)
	v.SetDefault("tls", false)
	v.SetDefault("tls-insecure", false)
	v.SetDefault("timeout", 5*time.Second)
	v.SetDefault("concurrency", 4)
	v.SetDefault("pack", "redis")
	v.SetDefault("catalogue", "")
	v.SetDefault("policy", "")
	v.SetDefault("report", "resp")
	v.SetDefault("summary", false)
	v.SetDefault("color", false)
	v.SetDefault("output", "")
	v.SetDefault("aws-profile", "")
	v.SetDefault("aws-region", "")
	v.SetDefault("log-level", "info")
}

// BindFlags binds every flag in fs to v. A flag the user did not set takes
// its value from v, so the flag variables always hold the effective setting.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			if err := applyValue(fs, f, v); err != nil {
				errs = append(errs, err)
			}
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag --%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// applyValue copies the viper value for f into the flag set.
func applyValue(fs *pflag.FlagSet, f *pflag.Flag, v *viper.Viper) error {
	var val string
	switch f.Value.Type() {
	case "stringSlice", "stringArray":
		val = strings.Join(v.GetStringSlice(f.Name), ",")
	default:
		val = fmt.Sprintf("%v", v.Get(f.Name))
	}
	if err := fs.Set(f.Name, val); err != nil {
		return fmt.Errorf("apply config value to --%s: %w", f.Name, err)
	}
	return nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations. All problems are reported.
func (c *Config) Validate() error {
	var errs []error
	if !contains(validReports, c.Report) {
		errs = append(errs, fmt.Errorf("invalid report format %q; valid values: %s", c.Report, strings.Join(validReports, ", ")))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.DB < 0 {
		errs = append(errs, fmt.Errorf("db must not be negative, got %d", c.DB))
	}
	if c.TLSInsecure && !c.TLS {
		errs = append(errs, errors.New("--tls-insecure requires --tls"))
	}
	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
