package incremental

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomutate/cmu/internal/config"
)

// fakeHistory is a minimal in-memory HistoryStore for exercising the
// analyzer without a real SQLite store.
type fakeHistory struct {
	fileHashes map[string]string
	testHashes map[string]string
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{fileHashes: map[string]string{}, testHashes: map[string]string{}}
}

func (f *fakeHistory) TestHash(filePath string) (string, bool) {
	h, ok := f.testHashes[filePath]
	return h, ok
}

func (f *fakeHistory) HasChanged(filePath, currentHash string) bool {
	return f.fileHashes[filePath] != currentHash
}

func (f *fakeHistory) HasEntry(filePath string) bool {
	_, ok := f.fileHashes[filePath]
	return ok
}

func TestAnalyzer_NeedsUpdate_NoPriorHistory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(src, []byte("int a;"), 0o644))

	cfg := config.Default()

	hist := newFakeHistory()
	a := New(cfg, dir, hist)

	results, err := a.Analyze(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].NeedsUpdate)
	assert.Equal(t, "no previous history", results[0].Reason)
}

func TestAnalyzer_NoUpdateNeeded_WhenUnchanged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(src, []byte("int a;"), 0o644))

	cfg := config.Default()

	hist := newFakeHistory()
	hasher := NewFileHasher()

	hash, err := hasher.HashFile(src)
	require.NoError(t, err)

	hist.fileHashes[src] = hash
	// No tests match, so the recorded test hash is that of the empty set.
	hist.testHashes[src] = hasher.CombinedFileHash(nil)

	a := New(cfg, dir, hist)

	results, err := a.NeedingUpdate(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestAnalyzer_NoUpdateNeeded_MultipleMatchingTestsUnchanged exercises
// testsChanged with more than one test matching the source, recording
// the combined hash the same way internal/ci.Engine's updateHistory
// does so the comparison actually agrees when nothing changed.
func TestAnalyzer_NoUpdateNeeded_MultipleMatchingTestsUnchanged(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(src, []byte("int a;"), 0o644))

	// Tests live outside dir so the analyzer's walk does not pick them up
	// as sources of their own.
	testDir := t.TempDir()
	test1 := filepath.Join(testDir, "a_basic_test.c")
	test2 := filepath.Join(testDir, "a_edge_test.c")
	require.NoError(t, os.WriteFile(test1, []byte("void test_basic(void) {}"), 0o644))
	require.NoError(t, os.WriteFile(test2, []byte("void test_edge(void) {}"), 0o644))

	cfg := config.Default()

	hist := newFakeHistory()
	hasher := NewFileHasher()

	fileHash, err := hasher.HashFile(src)
	require.NoError(t, err)

	testPaths := []string{test1, test2}

	hist.fileHashes[src] = fileHash
	hist.testHashes[src] = hasher.CombinedFileHash(testPaths)

	a := New(cfg, dir, hist)

	results, err := a.NeedingUpdate(t.Context(), testPaths)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestAnalyzer_NeedsUpdate_WhenOneOfMultipleTestsChanges proves the
// combined-hash comparison actually detects a change in either matching
// test, not just the first one found.
func TestAnalyzer_NeedsUpdate_WhenOneOfMultipleTestsChanges(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(src, []byte("int a;"), 0o644))

	testDir := t.TempDir()
	test1 := filepath.Join(testDir, "a_basic_test.c")
	test2 := filepath.Join(testDir, "a_edge_test.c")
	require.NoError(t, os.WriteFile(test1, []byte("void test_basic(void) {}"), 0o644))
	require.NoError(t, os.WriteFile(test2, []byte("void test_edge(void) {}"), 0o644))

	cfg := config.Default()

	hist := newFakeHistory()
	hasher := NewFileHasher()

	fileHash, err := hasher.HashFile(src)
	require.NoError(t, err)

	testPaths := []string{test1, test2}

	hist.fileHashes[src] = fileHash
	hist.testHashes[src] = hasher.CombinedFileHash(testPaths)

	require.NoError(t, os.WriteFile(test2, []byte("void test_edge(void) { assert(1); }"), 0o644))

	a := New(cfg, dir, hist)

	results, err := a.NeedingUpdate(t.Context(), testPaths)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, src, results[0])
}
