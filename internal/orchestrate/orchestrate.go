// Package orchestrate drives the full mutation-testing pipeline: for each
// attributed function with a non-empty match set, for each mutation site,
// it writes a mutant artifact and runs it against matching tests in order,
// applying short-circuit kill semantics. Grounded on
// original_source/src/mutator.py's process_mutants_for_source for the
// algorithm, and internal/execution/engine.go's semaphore/waitgroup pool
// for the concurrency layer.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gomutate/cmu/internal/attribute"
	"github.com/gomutate/cmu/internal/build"
	"github.com/gomutate/cmu/internal/match"
	"github.com/gomutate/cmu/internal/model"
	"github.com/gomutate/cmu/internal/mutate"
	"github.com/gomutate/cmu/internal/run"
	"github.com/gomutate/cmu/internal/scan"
)

// Config controls one orchestrator run.
type Config struct {
	Compiler    string
	CompileArgs []string
	Workers     int           // worker pool size; 0 means sequential (1)
	TestTimeout time.Duration // 0 means no wall-clock bound on test binaries
	OutputDir   string        // mutants_output directory, already created
}

// Orchestrator runs the pipeline over a set of sources against a set of
// tests, producing a Report.
type Orchestrator struct {
	cfg     Config
	builder *build.Builder
	logger  *slog.Logger
}

// New returns an Orchestrator configured per cfg.
func New(cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		cfg:     cfg,
		builder: build.New(cfg.Compiler, cfg.CompileArgs),
		logger:  logger,
	}
}

// Report is the accumulated result of a run: statistics plus the ordered
// detail records.
type Report struct {
	Stats   model.Stats
	Results []model.MutantResult // in completion order
}

// Run mutates and tests every source in sources against testPaths. Each
// source's own mutant set runs through the worker pool; results for
// independent mutants may complete out of order, but each mutant's own
// test sequence always preserves match-set order and its short-circuit
// semantics.
func (o *Orchestrator) Run(ctx context.Context, sources, testPaths []string) (*Report, error) {
	report := &Report{}

	var mu sync.Mutex

	sem := make(chan struct{}, o.cfg.Workers)

	var wg sync.WaitGroup

	for _, srcPath := range sources {
		mutants, err := o.mutantsForSource(srcPath, testPaths)
		if err != nil {
			return nil, err
		}

		for _, work := range mutants {
			work := work

			wg.Add(1)

			sem <- struct{}{}

			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				result := o.runOneMutant(ctx, work.mutant, work.tests)

				mu.Lock()
				report.Results = append(report.Results, result)
				report.Stats.Total++

				if result.Verdict == model.VerdictKilled {
					report.Stats.Killed++
				} else {
					report.Stats.Survived++
				}

				mu.Unlock()
			}()
		}
	}

	wg.Wait()

	return report, nil
}

type mutantWork struct {
	mutant model.Mutant
	tests  []string
}

// mutantsForSource scans and attributes a single source, matches tests per
// function, writes mutant artifacts to disk, and returns the set of
// mutants that have a non-empty match set (mutants with no matching test
// are skipped and do not contribute to totals, per spec.md §4.5/§8).
func (o *Orchestrator) mutantsForSource(srcPath string, testPaths []string) ([]mutantWork, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("orchestrate: failed to read source %s: %w", srcPath, err)
	}

	src := string(content)
	lines := strings.Split(src, "\n")

	sites := scan.Sites(src)
	if len(sites) == 0 {
		o.logger.Debug("no mutation sites found", "source", srcPath)
		return nil, nil
	}

	sourceMatches := match.BySource(testPaths, srcPath)
	if len(sourceMatches) == 0 {
		o.logger.Debug("no matching tests for source, skipping", "source", srcPath)
		return nil, nil
	}

	groups := attribute.GroupByFunction(sites, lines)

	// Deterministic function iteration order: by first occurrence of any
	// site in that group, matching spec.md's "ordered by occurrence" rule.
	funcNames := orderedFunctionNames(groups)

	var work []mutantWork

	for _, fn := range funcNames {
		funcMatches := match.ByFunction(sourceMatches, fn)
		if len(funcMatches) == 0 {
			continue
		}

		for idx, site := range groups[fn] {
			mutated, err := mutate.Apply(srcPath, src, site)
			if err != nil {
				o.logger.Warn("mutant desync, skipping site", "source", srcPath, "error", err)
				continue
			}

			mutant := model.Mutant{
				ID:         uuid.NewString(),
				SourcePath: srcPath,
				Function:   fn,
				Index:      idx,
				Site:       site,
				Content:    mutated,
				Ext:        filepath.Ext(srcPath),
			}

			artifactPath := filepath.Join(o.cfg.OutputDir, mutant.ArtifactName())
			if err := os.WriteFile(artifactPath, []byte(mutated), 0o644); err != nil {
				o.logger.Error("failed to write mutant artifact, skipping mutant", "source", srcPath, "artifact", artifactPath, "error", err)
				continue
			}

			work = append(work, mutantWork{mutant: mutant, tests: funcMatches})
		}
	}

	return work, nil
}

func orderedFunctionNames(groups map[string][]model.Site) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return groups[names[i]][0].Line < groups[names[j]][0].Line
	})

	return names
}

// runOneMutant builds and runs mutant against its matching tests in order,
// stopping at the first build failure or failing test.
func (o *Orchestrator) runOneMutant(ctx context.Context, mutant model.Mutant, tests []string) model.MutantResult {
	artifactPath := filepath.Join(o.cfg.OutputDir, mutant.ArtifactName())

	result := model.MutantResult{Mutant: mutant, Verdict: model.VerdictSurvived}

	for i, testPath := range tests {
		binPath := filepath.Join(o.cfg.OutputDir, fmt.Sprintf("%s_%d_%s", strings.TrimSuffix(mutant.ArtifactName(), mutant.Ext), i, uuid.NewString()))

		buildResult, err := o.builder.Build(ctx, []string{artifactPath, testPath}, binPath)
		if err != nil {
			o.logger.Error("builder invocation failed", "mutant", mutant.ID, "error", err)
		}

		if !buildResult.OK {
			o.logger.Warn("build failed, classifying as killed", "mutant", mutant.ID, "test", testPath, "stderr", buildResult.Stderr)

			result.Verdict = model.VerdictKilled
			result.Outcomes = append(result.Outcomes, model.TestOutcome{
				Mutant: mutant, TestPath: testPath,
				Verdict: model.VerdictKilled, KillReason: model.KillReasonBuild,
				BuildLog: buildResult.Stderr,
			})

			return result
		}

		runResult := run.Run(ctx, binPath, o.cfg.TestTimeout)
		os.Remove(binPath)

		if runResult.Outcome == run.Fail {
			result.Verdict = model.VerdictKilled
			result.Outcomes = append(result.Outcomes, model.TestOutcome{
				Mutant: mutant, TestPath: testPath,
				Verdict: model.VerdictKilled, KillReason: model.KillReasonTest,
				RunLog: runResult.Stdout + runResult.Stderr,
			})

			return result
		}

		result.Outcomes = append(result.Outcomes, model.TestOutcome{
			Mutant: mutant, TestPath: testPath,
			Verdict: model.VerdictSurvived,
			RunLog:  runResult.Stdout,
		})
	}

	return result
}
