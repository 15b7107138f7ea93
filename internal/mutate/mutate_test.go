package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomutate/cmu/internal/model"
)

func TestApply_ReplacesOperator(t *testing.T) {
	src := "return a + b;"
	site := model.Site{Line: 0, Column: 9, Operator: model.OpAdd}

	mutated, err := Apply("f.c", src, site)
	require.NoError(t, err)
	assert.Equal(t, "return a - b;", mutated)
}

func TestApply_OnlyOneSpanChanges(t *testing.T) {
	src := "int r = a * b - c / d;"
	site := model.Site{Line: 0, Column: 10, Operator: model.OpMul}

	mutated, err := Apply("f.c", src, site)
	require.NoError(t, err)

	diffCount := 0

	for i := range src {
		if src[i] != mutated[i] {
			diffCount++
		}
	}

	assert.Equal(t, 1, diffCount)
}

func TestApply_Idempotent(t *testing.T) {
	src := "return a + b;"
	site := model.Site{Line: 0, Column: 9, Operator: model.OpAdd}

	once, err := Apply("f.c", src, site)
	require.NoError(t, err)

	// Applying again at the same site now desyncs, because the operator
	// there is the mutant, not the original.
	_, err = Apply("f.c", once, site)
	assert.Error(t, err)
}

func TestApply_Desync(t *testing.T) {
	src := "return a + b;"
	site := model.Site{Line: 0, Column: 0, Operator: model.OpAdd}

	_, err := Apply("f.c", src, site)
	assert.Error(t, err)

	var desync *ErrDesync
	assert.ErrorAs(t, err, &desync)
}
