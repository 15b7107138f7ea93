// Package ci wires the core pipeline into a CI-flavored run: a quality
// gate evaluation, a CI report, and an optional GitHub PR comment.
// Grounded on internal/ci/{quality_gate,engine,reporter,config}.go from
// the teacher, adapted from Go-AST mock results to real orchestrator
// output.
package ci

import (
	"fmt"

	"github.com/gomutate/cmu/internal/model"
)

// QualityGateResult is the outcome of evaluating a run's mutation score
// against a configured minimum.
type QualityGateResult struct {
	Pass          bool    `json:"pass"`
	MutationScore float64 `json:"mutationScore"`
	Reason        string  `json:"reason"`
}

// QualityGateEvaluator evaluates a Stats against a configured minimum
// mutation score. Reused near-verbatim from the teacher's
// QualityGateEvaluator — this logic has no Go-vs-C/C++ specificity.
type QualityGateEvaluator struct {
	enabled          bool
	minMutationScore float64
}

// NewQualityGateEvaluator creates a new quality gate evaluator.
func NewQualityGateEvaluator(enabled bool, minMutationScore float64) *QualityGateEvaluator {
	return &QualityGateEvaluator{enabled: enabled, minMutationScore: minMutationScore}
}

// Evaluate evaluates the quality gate against a run's statistics.
func (e *QualityGateEvaluator) Evaluate(stats model.Stats) *QualityGateResult {
	if stats.Total == 0 {
		return &QualityGateResult{Pass: false, MutationScore: 0, Reason: "no mutants generated"}
	}

	score := stats.Score()

	if !e.enabled {
		return &QualityGateResult{Pass: true, MutationScore: score, Reason: "quality gate disabled"}
	}

	if score >= e.minMutationScore {
		return &QualityGateResult{Pass: true, MutationScore: score, Reason: "mutation score meets minimum threshold"}
	}

	return &QualityGateResult{
		Pass: false, MutationScore: score,
		Reason: fmt.Sprintf("mutation score %.1f%% is below minimum threshold of %.1f%%", score, e.minMutationScore),
	}
}
