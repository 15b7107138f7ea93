package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gomutate/cmu/internal/collect"
	"github.com/gomutate/cmu/internal/config"
	"github.com/gomutate/cmu/internal/ignore"
	"github.com/gomutate/cmu/internal/orchestrate"
	"github.com/gomutate/cmu/internal/report"
)

func rootCtx() context.Context {
	return context.Background()
}

func runMutationTesting(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.Verbose = true
	}

	applyRunFlags(cmd, cfg)

	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ignoreParser := ignore.New()
	if ignoreFile, err := ignore.FindIgnoreFile("."); err == nil && ignoreFile != "" {
		_ = ignoreParser.LoadFromFile(ignoreFile)
	}

	sources, err := collect.Files(logger, cfg.Sources, ignoreParser)
	if err != nil {
		return err
	}

	if err := collect.RequireNonEmpty(sources, "source"); err != nil {
		return err
	}

	tests, err := collect.Files(logger, []string{cfg.Test.Path}, ignoreParser)
	if err != nil {
		return err
	}

	if err := collect.RequireNonEmpty(tests, "test"); err != nil {
		return err
	}

	outDir := cfg.Output.Dir
	if outDir == "" {
		outDir = "."
	}

	outDir = filepath.Join(outDir, "mutants_output")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	orc := orchestrate.New(orchestrate.Config{
		Compiler:    cfg.Mutation.Compiler,
		CompileArgs: cfg.Mutation.Flags,
		Workers:     cfg.Mutation.Workers,
		TestTimeout: time.Duration(cfg.Test.TimeoutSecond) * time.Second,
		OutputDir:   outDir,
	}, logger)

	start := time.Now()

	orcReport, err := orc.Run(rootCtx(), sources, tests)
	if err != nil {
		return fmt.Errorf("mutation testing failed: %w", err)
	}

	summary := report.FromResults(orcReport.Stats, orcReport.Results, time.Since(start), "0.1.0")

	format := report.Format(cfg.Output.Format)

	rendered, err := report.Render(summary, format)
	if err != nil {
		return err
	}

	if cfg.Output.File != "" {
		return os.WriteFile(cfg.Output.File, []byte(rendered), 0o644)
	}

	fmt.Println(rendered)

	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if sources, _ := cmd.Flags().GetStringSlice("source"); len(sources) > 0 {
		cfg.Sources = sources
	}

	if test, _ := cmd.Flags().GetString("test"); test != "" {
		cfg.Test.Path = test
	}

	if compiler, _ := cmd.Flags().GetString("compiler"); compiler != "" {
		cfg.Mutation.Compiler = compiler
	}

	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Mutation.Workers = workers
	}

	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Output.Format = format
	}

	if mutDir, _ := cmd.Flags().GetString("mut"); mutDir != "" {
		cfg.Output.Dir = mutDir
	}
}
