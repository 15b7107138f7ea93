package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomutate/cmu/internal/model"
	"github.com/gomutate/cmu/internal/report"
)

func TestBuildCIReport_FieldsFromEnvAndSummary(t *testing.T) {
	summary := report.Summary{Stats: model.Stats{Total: 4, Killed: 3, Survived: 1}}
	gate := &QualityGateResult{Pass: true, MutationScore: 75.0, Reason: "ok"}
	env := EnvConfig{Repository: "gomutate/cmu", PRNumber: 7, BaseRef: "main", HeadRef: "feature"}

	r := buildCIReport(summary, gate, env)

	assert.Equal(t, "gomutate/cmu", r.Repository)
	assert.Equal(t, 7, r.PRNumber)
	assert.Equal(t, 4, r.TotalMutants)
	assert.Equal(t, 3, r.Killed)
	assert.InDelta(t, 75.0, r.MutationScore, 0.01)
	assert.Same(t, gate, r.QualityGate)
}

func TestCIReport_ToJSON(t *testing.T) {
	r := buildCIReport(report.Summary{Stats: model.Stats{Total: 2, Killed: 2}}, nil, EnvConfig{})

	data, err := r.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, data, "\"totalMutants\": 2")
}
