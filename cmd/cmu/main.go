// Package main provides the CLI interface for the cmu mutation testing tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gomutate/cmu/internal/ci"
	"github.com/gomutate/cmu/internal/config"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "cmu",
	Short: "A mutation testing tool for C and C++",
	Long: `cmu is a mutation testing tool that validates the quality of a C/C++
test suite. It introduces small, targeted changes (mutations) to relational
and arithmetic operators in source files and checks whether the existing
tests catch them.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run mutation testing against the configured sources and tests",
	RunE:  runMutationTesting,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("cmu version 0.1.0")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cmu configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .cmu.yaml configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		filename := ".cmu.yaml"

		if _, err := os.Stat(filename); err == nil && !force {
			return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", filename)
		}

		if err := config.Save(config.Default(), filename); err != nil {
			return err
		}

		fmt.Printf("created %s\n", filename)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := configFile
		if len(args) > 0 {
			path = args[0]
		}

		if _, err := config.Load(path); err != nil {
			fmt.Printf("configuration invalid: %v\n", err)
			return err
		}

		fmt.Println("configuration is valid")

		return nil
	},
}

var ciCmd = &cobra.Command{
	Use:   "ci",
	Short: "Run mutation testing in CI, evaluating a quality gate",
	Long: `Run mutation testing optimized for CI: evaluates a minimum mutation
score quality gate, prints the score and the gate result, and posts a GitHub
PR comment when configured to and running on a pull request.`,
	RunE: runCI,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch sources and tests and re-run mutation testing on change",
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file such as .cmu.yaml (when unset, no file is read: defaults plus CMU_* environment variables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	runCmd.Flags().StringSlice("source", nil, "source file or directory (repeatable)")
	runCmd.Flags().String("test", "", "test file or directory")
	runCmd.Flags().String("compiler", "", "compiler to invoke (default gcc)")
	runCmd.Flags().Int("workers", 0, "worker pool size (default from config)")
	runCmd.Flags().String("format", "", "report format: text, json, html")
	runCmd.Flags().String("mut", "", "base directory for outputs")

	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")

	rootCmd.AddCommand(runCmd, versionCmd, ciCmd, watchCmd, configCmd)
	configCmd.AddCommand(configInitCmd, configValidateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCI(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.Verbose = true
	}

	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	engine, err := ci.NewEngine(cfg, workDir, nil)
	if err != nil {
		return fmt.Errorf("failed to create CI engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Run(rootCtx())
	if err != nil {
		return fmt.Errorf("CI run failed: %w", err)
	}

	fmt.Printf("mutation score: %.1f%% (%d killed / %d total)\n",
		result.Summary.Stats.Score(), result.Summary.Stats.Killed, result.Summary.Stats.Total)
	fmt.Printf("quality gate: %s — %s\n", colorizeGate(gateLabel(result.Gate.Pass), result.Gate.Pass), result.Gate.Reason)

	if result.GateFailed {
		return fmt.Errorf("quality gate failed: %s", result.Gate.Reason)
	}

	return nil
}

func gateLabel(pass bool) string {
	if pass {
		return "PASS"
	}

	return "FAIL"
}
