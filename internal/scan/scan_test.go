package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gomutate/cmu/internal/model"
)

func TestSites_SimpleAddition(t *testing.T) {
	src := "int add(int a, int b) { return a + b; }"
	sites := Sites(src)

	require := assert.New(t)
	require.Len(sites, 1)
	require.Equal(model.OpAdd, sites[0].Operator)
	require.Equal(0, sites[0].Line)
}

func TestSites_OperatorShadowing(t *testing.T) {
	sites := Sites("if (a >= b) return a;")

	assert.Len(t, sites, 1)
	assert.Equal(t, model.OpGe, sites[0].Operator)
}

func TestSites_SkipsLineComment(t *testing.T) {
	src := "// if (x == y) return 1;\nreturn x+y;"
	sites := Sites(src)

	assert.Len(t, sites, 1)
	assert.Equal(t, 1, sites[0].Line)
	assert.Equal(t, model.OpAdd, sites[0].Operator)
}

func TestSites_SkipsBlockComment(t *testing.T) {
	src := "/* a + b */\nreturn c + d;"
	sites := Sites(src)

	assert.Len(t, sites, 1)
	assert.Equal(t, 1, sites[0].Line)
}

func TestSites_SkipsStringLiteral(t *testing.T) {
	src := `const char *s = "a + b";`
	sites := Sites(src)

	assert.Empty(t, sites)
}

func TestSites_SecondEqualsOutsideString(t *testing.T) {
	src := `const char *s = "a==b"; if (a==b) return 0;`
	sites := Sites(src)

	assert.Len(t, sites, 1)
	assert.Equal(t, model.OpEq, sites[0].Operator)
}

func TestSites_SkipsPreprocessorLine(t *testing.T) {
	src := "#define MAX(a,b) ((a) > (b) ? (a) : (b))\nreturn a + b;"
	sites := Sites(src)

	assert.Len(t, sites, 1)
	assert.Equal(t, 1, sites[0].Line)
}

func TestSites_DivisionBeforeLineComment(t *testing.T) {
	src := "x /// comment"
	sites := Sites(src)

	assert.Empty(t, sites)
}

func TestSites_NoOperators(t *testing.T) {
	sites := Sites("int x = 5;")
	assert.Empty(t, sites)
}

func TestSites_RoundTrip(t *testing.T) {
	src := "int r = a * b - c / d;"
	for _, s := range Sites(src) {
		assert.Equal(t, string(s.Operator), src[s.Column:s.Column+len(s.Operator)])
	}
}
