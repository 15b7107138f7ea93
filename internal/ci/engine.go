package ci

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gomutate/cmu/internal/collect"
	"github.com/gomutate/cmu/internal/config"
	"github.com/gomutate/cmu/internal/history"
	"github.com/gomutate/cmu/internal/ignore"
	"github.com/gomutate/cmu/internal/incremental"
	"github.com/gomutate/cmu/internal/match"
	"github.com/gomutate/cmu/internal/model"
	"github.com/gomutate/cmu/internal/orchestrate"
	"github.com/gomutate/cmu/internal/report"
)

// Engine runs the full pipeline plus CI-specific post-processing: quality
// gate evaluation, a CI-flavored report, and an optional GitHub PR
// comment. Grounded on internal/ci/engine.go's Run/runMutationTesting
// pipeline shape.
type Engine struct {
	cfg     *config.Config
	workDir string
	logger  *slog.Logger
	history *history.Store
}

// NewEngine wires a CI Engine from configuration rooted at workDir.
func NewEngine(cfg *config.Config, workDir string, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := history.Open(filepath.Join(workDir, cfg.HistoryFile))
	if err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, workDir: workDir, logger: logger, history: store}, nil
}

// Close releases the engine's history store.
func (e *Engine) Close() error {
	return e.history.Close()
}

// Result is everything a CI run produces.
type Result struct {
	Summary    report.Summary
	Gate       *QualityGateResult
	CIReport   CIReport
	GateFailed bool
}

// Run executes the pipeline and CI post-processing.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	ignoreParser := ignore.New()

	if ignoreFile, err := ignore.FindIgnoreFile(e.workDir); err == nil && ignoreFile != "" {
		_ = ignoreParser.LoadFromFile(ignoreFile)
	}

	sources, err := e.resolveSources(ctx, ignoreParser)
	if err != nil {
		return nil, err
	}

	if err := collect.RequireNonEmpty(sources, "source"); err != nil {
		return nil, err
	}

	tests, err := collect.Files(e.logger, []string{e.cfg.Test.Path}, ignoreParser)
	if err != nil {
		return nil, err
	}

	if err := collect.RequireNonEmpty(tests, "test"); err != nil {
		return nil, err
	}

	outDir := filepath.Join(e.resolveMutBase(), "mutants_output")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("ci: failed to create output dir: %w", err)
	}

	orc := orchestrate.New(orchestrate.Config{
		Compiler:    e.cfg.Mutation.Compiler,
		CompileArgs: e.cfg.Mutation.Flags,
		Workers:     e.cfg.Mutation.Workers,
		TestTimeout: time.Duration(e.cfg.Test.TimeoutSecond) * time.Second,
		OutputDir:   outDir,
	}, e.logger)

	orcReport, err := orc.Run(ctx, sources, tests)
	if err != nil {
		return nil, err
	}

	e.updateHistory(sources, tests, orcReport)

	summary := report.FromResults(orcReport.Stats, orcReport.Results, time.Since(start), "dev")

	gate := NewQualityGateEvaluator(
		e.cfg.CI.QualityGate.Enabled,
		e.cfg.CI.QualityGate.MinMutationScore,
	).Evaluate(orcReport.Stats)

	ciReport := buildCIReport(summary, gate, FromEnv())

	result := &Result{
		Summary:    summary,
		Gate:       gate,
		CIReport:   ciReport,
		GateFailed: !gate.Pass && e.cfg.CI.QualityGate.FailOnQualityGate,
	}

	if e.cfg.CI.GitHub.Enabled && e.cfg.CI.GitHub.PRComments {
		env := FromEnv()
		if env.IsPullRequest() {
			gh := NewGitHubIntegration(os.Getenv("GITHUB_TOKEN"), env.Repository, env.PRNumber)
			if err := gh.CreatePRComment(ctx, summary, gate); err != nil {
				e.logger.Warn("failed to post PR comment", "error", err)
			}
		}
	}

	return result, nil
}

func (e *Engine) resolveSources(ctx context.Context, ignoreParser *ignore.Parser) ([]string, error) {
	if !e.cfg.Incremental.Enabled {
		return collect.Files(e.logger, e.cfg.Sources, ignoreParser)
	}

	analyzer := incremental.New(e.cfg, e.workDir, e.history)

	tests, err := collect.Files(e.logger, []string{e.cfg.Test.Path}, ignoreParser)
	if err != nil {
		return nil, err
	}

	return analyzer.NeedingUpdate(ctx, tests)
}

func (e *Engine) resolveMutBase() string {
	if e.cfg.Output.Dir != "" {
		return e.cfg.Output.Dir
	}

	return e.workDir
}

func (e *Engine) updateHistory(sources, tests []string, orcReport *orchestrate.Report) {
	hasher := incremental.NewFileHasher()

	perFileStats := map[string]model.Stats{}

	for _, r := range orcReport.Results {
		s := perFileStats[r.Mutant.SourcePath]
		s.Total++

		if r.Verdict == model.VerdictKilled {
			s.Killed++
		} else {
			s.Survived++
		}

		perFileStats[r.Mutant.SourcePath] = s
	}

	for _, src := range sources {
		fileHash, err := hasher.HashFile(src)
		if err != nil {
			continue
		}

		// Must select the same matched-test set incremental.Analyzer's
		// testsChanged uses on read, or the comparison never agrees.
		testHash := hasher.CombinedFileHash(match.BySource(tests, src))
		stats := perFileStats[src]

		score := 0.0
		if stats.Total > 0 {
			score = float64(stats.Killed) / float64(stats.Total) * 100
		}

		_ = e.history.UpdateFile(src, fileHash, testHash, score)
	}
}
