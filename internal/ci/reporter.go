package ci

import (
	"encoding/json"
	"fmt"

	"github.com/gomutate/cmu/internal/report"
)

// CIReport is the CI-flavored report Engine.Run builds and returns in
// Result (nothing in this package writes it to a file), grounded on the teacher's internal/ci/reporter.go CIReport, adapted from
// Go-AST FileReport breakdowns to the mutation-score summary this domain
// actually produces.
type CIReport struct {
	Repository    string             `json:"repository,omitempty"`
	PRNumber      int                `json:"prNumber,omitempty"`
	BaseRef       string             `json:"baseRef,omitempty"`
	HeadRef       string             `json:"headRef,omitempty"`
	Actor         string             `json:"actor,omitempty"`
	MutationScore float64            `json:"mutationScore"`
	TotalMutants  int                `json:"totalMutants"`
	Killed        int                `json:"killed"`
	Survived      int                `json:"survived"`
	QualityGate   *QualityGateResult `json:"qualityGate,omitempty"`
	Summary       report.Summary     `json:"summary"`
}

func buildCIReport(summary report.Summary, gate *QualityGateResult, env EnvConfig) CIReport {
	return CIReport{
		Repository:    env.Repository,
		PRNumber:      env.PRNumber,
		BaseRef:       env.BaseRef,
		HeadRef:       env.HeadRef,
		Actor:         env.Actor,
		MutationScore: summary.Stats.Score(),
		TotalMutants:  summary.Stats.Total,
		Killed:        summary.Stats.Killed,
		Survived:      summary.Stats.Survived,
		QualityGate:   gate,
		Summary:       summary,
	}
}

// ToJSON renders the CI report as indented JSON.
func (r CIReport) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ci: failed to marshal CI report: %w", err)
	}

	return string(data), nil
}
