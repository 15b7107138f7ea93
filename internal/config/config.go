// Package config loads and validates cmu's configuration, layering a
// checked-in YAML file and environment variables via
// github.com/spf13/viper (CLI flags are applied on top by cmd/cmu) —
// replacing the teacher's hand-rolled
// yaml.v3-direct loader (internal/config/yaml_config.go) with the layered
// approach CI environments need (config supplied via env, not a file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// TestConfig describes how to find and run tests.
type TestConfig struct {
	Path          string `mapstructure:"path"`
	TimeoutSecond int    `mapstructure:"timeout_seconds"`
}

// MutationConfig describes the build toolchain and worker pool.
type MutationConfig struct {
	Compiler string   `mapstructure:"compiler"`
	Flags    []string `mapstructure:"flags"`
	Workers  int      `mapstructure:"workers"`
}

// IncrementalConfig controls git-diff-based skip-unchanged behavior.
type IncrementalConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	UseGitDiff bool   `mapstructure:"use_git_diff"`
	BaseBranch string `mapstructure:"base_branch"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"` // text|json|html
	File   string `mapstructure:"file"`   // empty means stdout
	Dir    string `mapstructure:"dir"`    // mutants_output base, defaults to cwd
}

// QualityGateConfig mirrors the CI quality gate knobs.
type QualityGateConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	MinMutationScore  float64 `mapstructure:"min_mutation_score"`
	FailOnQualityGate bool    `mapstructure:"fail_on_quality_gate"`
}

// GitHubConfig controls PR comment posting.
type GitHubConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	PRComments bool `mapstructure:"pr_comments"`
}

// CIConfig groups the CI-only settings.
type CIConfig struct {
	QualityGate QualityGateConfig `mapstructure:"quality_gate"`
	GitHub      GitHubConfig      `mapstructure:"github"`
}

// Config is the fully-resolved configuration for one invocation.
type Config struct {
	Verbose     bool              `mapstructure:"verbose"`
	Sources     []string          `mapstructure:"sources"`
	Test        TestConfig        `mapstructure:"test"`
	Mutation    MutationConfig    `mapstructure:"mutation"`
	Incremental IncrementalConfig `mapstructure:"incremental"`
	Output      OutputConfig      `mapstructure:"output"`
	HistoryFile string            `mapstructure:"history_file"`
	CI          CIConfig          `mapstructure:"ci"`
}

// Default returns the zero-config defaults.
func Default() *Config {
	return &Config{
		Mutation: MutationConfig{
			Compiler: "gcc",
			Workers:  4,
		},
		Incremental: IncrementalConfig{
			BaseBranch: "main",
		},
		Output: OutputConfig{
			Format: "text",
		},
		HistoryFile: ".cmu/history.db",
		CI: CIConfig{
			QualityGate: QualityGateConfig{
				MinMutationScore:  60.0,
				FailOnQualityGate: true,
			},
		},
	}
}

// Load reads configFile (if non-empty and present), overlays CMU_*
// environment variables, and validates the result. An empty configFile
// yields the defaults overlaid with environment variables only.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CMU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	setDefaults(v, def)

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("mutation.compiler", d.Mutation.Compiler)
	v.SetDefault("mutation.workers", d.Mutation.Workers)
	v.SetDefault("incremental.base_branch", d.Incremental.BaseBranch)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("history_file", d.HistoryFile)
	v.SetDefault("ci.quality_gate.min_mutation_score", d.CI.QualityGate.MinMutationScore)
	v.SetDefault("ci.quality_gate.fail_on_quality_gate", d.CI.QualityGate.FailOnQualityGate)
}

// Validate checks the invariants Load's callers rely on.
func (c *Config) Validate() error {
	if c.Mutation.Workers < 0 {
		return fmt.Errorf("config: mutation.workers must be >= 0")
	}

	switch c.Output.Format {
	case "", "text", "json", "html":
	default:
		return fmt.Errorf("config: unsupported output.format %q", c.Output.Format)
	}

	return nil
}

// Save writes cfg to filename as YAML, used by `cmu config init`.
func Save(cfg *Config, filename string) error {
	v := viper.New()
	v.Set("verbose", cfg.Verbose)
	v.Set("sources", cfg.Sources)
	v.Set("test", cfg.Test)
	v.Set("mutation", cfg.Mutation)
	v.Set("incremental", cfg.Incremental)
	v.Set("output", cfg.Output)
	v.Set("history_file", cfg.HistoryFile)
	v.Set("ci", cfg.CI)

	if err := v.WriteConfigAs(filename); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", filename, err)
	}

	return nil
}
