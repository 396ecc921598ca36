// Package config resolves batchgcd's run configuration from defaults, an
// optional config file, environment variables, and (via BindFlags) command
// line flags, in that increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Variant selects the remainder-tree descent implementation (spec.md §4.3).
type Variant string

const (
	VariantFrugal Variant = "frugal"
	VariantFast   Variant = "fast"
)

// Config is the fully resolved set of knobs a run needs.
type Config struct {
	InputPath     string `mapstructure:"input"`
	TreeDir       string `mapstructure:"tree_dir"`
	Variant       string `mapstructure:"variant"`
	Workers       int    `mapstructure:"workers"`
	LogLevel      string `mapstructure:"log_level"`
	TraceEndpoint string `mapstructure:"trace_endpoint"`
}

// Load resolves a Config from defaults, the config file at configPath (if
// non-empty and present), environment variables prefixed BATCHGCD_, and
// flags already bound into v via BindFlags.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			_, notFound := err.(viper.ConfigFileNotFoundError)
			if !notFound && !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", configPath, err)
			}
		}
	}

	v.SetEnvPrefix("BATCHGCD")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// BindFlags binds a run command's flag set into v at a higher precedence
// than the config file and environment, so a flag the caller actually
// passed always wins. Flag names use dashes ("tree-dir") while config keys
// use underscores ("tree_dir"), so each flag is bound under its underscored
// key.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err == nil {
			err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		}
	})
	return err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "data/moduli.csv")
	v.SetDefault("tree_dir", "data/product_tree")
	v.SetDefault("variant", string(VariantFrugal))
	v.SetDefault("workers", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("trace_endpoint", "")
}

// Validate checks that the resolved configuration names a supported
// remainder-tree variant and a non-negative worker count.
func (c *Config) Validate() error {
	switch Variant(c.Variant) {
	case VariantFrugal, VariantFast:
	default:
		return fmt.Errorf("unsupported variant %q: want %q or %q", c.Variant, VariantFrugal, VariantFast)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.InputPath == "" {
		return fmt.Errorf("input path must not be empty")
	}
	if c.TreeDir == "" {
		return fmt.Errorf("tree_dir must not be empty")
	}
	return nil
}
