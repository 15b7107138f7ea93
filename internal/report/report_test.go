package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomutate/cmu/internal/model"
)

func TestRenderText_EmptyRun(t *testing.T) {
	s := Summary{Stats: model.Stats{}}

	out := renderText(s)
	assert.Contains(t, out, "N/A")
	assert.NotContains(t, out, "Detailed Mutant/Test Results")
}

func TestRenderText_Scenario1(t *testing.T) {
	s := Summary{Stats: model.Stats{Total: 1, Killed: 1, Survived: 0}}

	out := renderText(s)
	assert.Contains(t, out, "Total mutants  | 1")
	assert.Contains(t, out, "Killed         | 1")
	assert.Contains(t, out, "100.0%")
}

func TestRenderText_Scenario2(t *testing.T) {
	s := Summary{Stats: model.Stats{Total: 1, Killed: 0, Survived: 1}}

	out := renderText(s)
	assert.Contains(t, out, "0.0%")
}

func TestTallyConsistency(t *testing.T) {
	s := model.Stats{Total: 10, Killed: 6, Survived: 4}
	assert.Equal(t, s.Total, s.Killed+s.Survived)
	assert.GreaterOrEqual(t, s.Killed, 0)
	assert.GreaterOrEqual(t, s.Survived, 0)
}

func TestRenderJSON(t *testing.T) {
	s := Summary{Stats: model.Stats{Total: 2, Killed: 1, Survived: 1}, Duration: time.Second}

	out, err := Render(s, FormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"total": 2`))
}

func TestFromResults_PreservesOrder(t *testing.T) {
	mutant := func(fn string) model.Mutant {
		return model.Mutant{SourcePath: "f.c", Function: fn, Ext: ".c"}
	}

	results := []model.MutantResult{
		{
			Mutant: mutant("a"), Verdict: model.VerdictSurvived,
			Outcomes: []model.TestOutcome{{TestPath: "test_a.c", Verdict: model.VerdictSurvived}},
		},
		{
			Mutant: mutant("b"), Verdict: model.VerdictKilled,
			Outcomes: []model.TestOutcome{{TestPath: "test_b.c", Verdict: model.VerdictKilled, KillReason: model.KillReasonTest}},
		},
	}

	s := FromResults(model.Stats{Total: 2, Killed: 1, Survived: 1}, results, 0, "test")
	require.Len(t, s.Details, 2)
	assert.Equal(t, "test_a.c", s.Details[0].TestFile)
	assert.Equal(t, "test_b.c", s.Details[1].TestFile)
	assert.Equal(t, "KILLED (test)", s.Details[1].Result)
}
