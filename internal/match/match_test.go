package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBySource(t *testing.T) {
	tests := []string{"test_calc.c", "test_other.c", "calc_helpers_test.c"}

	matches := BySource(tests, "/src/calc.c")
	assert.ElementsMatch(t, []string{"test_calc.c", "calc_helpers_test.c"}, matches)
}

func TestBySource_Empty(t *testing.T) {
	matches := BySource([]string{"test_foo.c"}, "/src/bar.c")
	assert.Empty(t, matches)
}

func TestByFunction(t *testing.T) {
	sourceMatches := []string{"test_f.c", "test_g.c"}

	assert.Equal(t, []string{"test_f.c"}, ByFunction(sourceMatches, "f"))
	assert.Equal(t, []string{"test_g.c"}, ByFunction(sourceMatches, "g"))
}
