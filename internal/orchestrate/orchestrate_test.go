package orchestrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomutate/cmu/internal/model"
)

// fakeCompilerScript is a stand-in for gcc: it takes the last two
// arguments before "-o" as (mutant source, test script) and copies the
// *test* file to the output, so that "running the binary" in the test
// below is really just running the test script against whichever source
// text it was told to exercise. This lets the orchestrator's full
// pipeline be exercised without a real C toolchain.
const fakeCompilerScript = `#!/bin/sh
set -e
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "-o" ]; then
    out="$arg"
  fi
  prev="$arg"
done
# second-to-last non-flag arg is the test script; copy it as the "binary"
test_file="$2"
cp "$test_file" "$out"
chmod +x "$out"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestOrchestrator_KilledByTest(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "mutants_output")
	require.NoError(t, os.MkdirAll(outDir, 0o750))

	compiler := writeFile(t, dir, "cc.sh", fakeCompilerScript)

	src := writeFile(t, dir, "add.c", "int add(int a, int b) { return a + b; }\n")
	// Test "fails" unconditionally, simulating a test that kills every mutant.
	test := writeFile(t, dir, "test_add.c", "#!/bin/sh\nexit 1\n")

	o := New(Config{Compiler: compiler, Workers: 2, OutputDir: outDir}, nil)

	report, err := o.Run(context.Background(), []string{src}, []string{test})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.Total)
	assert.Equal(t, 1, report.Stats.Killed)
	assert.Equal(t, 0, report.Stats.Survived)
	assert.Equal(t, model.VerdictKilled, report.Results[0].Verdict)
}

func TestOrchestrator_SurvivedWhenTestPasses(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "mutants_output")
	require.NoError(t, os.MkdirAll(outDir, 0o750))

	compiler := writeFile(t, dir, "cc.sh", fakeCompilerScript)

	src := writeFile(t, dir, "max.c", "int max(int a, int b) { if (a > b) return a; return b; }\n")
	test := writeFile(t, dir, "test_max.c", "#!/bin/sh\nexit 0\n")

	o := New(Config{Compiler: compiler, Workers: 1, OutputDir: outDir}, nil)

	report, err := o.Run(context.Background(), []string{src}, []string{test})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.Total)
	assert.Equal(t, 1, report.Stats.Survived)
}

// TestOrchestrator_ShortCircuitsAfterFirstFailingTest pins down the
// single most important performance invariant: once a mutant is killed
// by its first matching test, runOneMutant must not build or run any
// later test in its match set.
func TestOrchestrator_ShortCircuitsAfterFirstFailingTest(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "mutants_output")
	require.NoError(t, os.MkdirAll(outDir, 0o750))

	compiler := writeFile(t, dir, "cc.sh", fakeCompilerScript)

	src := writeFile(t, dir, "add.c", "int add(int a, int b) { return a + b; }\n")

	// test_add_first kills the mutant immediately. test_add_second would
	// also kill it, but leaves a marker file behind if it ever actually
	// runs, so a surviving marker proves the short-circuit was skipped.
	marker := filepath.Join(dir, "second_test_ran")
	test1 := writeFile(t, dir, "add_first_test.c", "#!/bin/sh\nexit 1\n")
	test2 := writeFile(t, dir, "add_second_test.c", fmt.Sprintf("#!/bin/sh\ntouch %s\nexit 1\n", marker))

	o := New(Config{Compiler: compiler, Workers: 1, OutputDir: outDir}, nil)

	report, err := o.Run(context.Background(), []string{src}, []string{test1, test2})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	result := report.Results[0]
	assert.Equal(t, model.VerdictKilled, result.Verdict)
	require.Len(t, result.Outcomes, 1, "short-circuit must stop after the first failing test")
	assert.Equal(t, test1, result.Outcomes[0].TestPath)

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "second test must never run once the mutant is already killed")
}

func TestOrchestrator_NoMatchingTests_NoContribution(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "mutants_output")
	require.NoError(t, os.MkdirAll(outDir, 0o750))

	compiler := writeFile(t, dir, "cc.sh", fakeCompilerScript)

	src := writeFile(t, dir, "div.c", "int div(int a, int b) { return a / b; }\n")
	test := writeFile(t, dir, "test_unrelated.c", "#!/bin/sh\nexit 0\n")

	o := New(Config{Compiler: compiler, Workers: 1, OutputDir: outDir}, nil)

	report, err := o.Run(context.Background(), []string{src}, []string{test})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Stats.Total)
}
