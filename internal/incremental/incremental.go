// incremental.go adapts internal/analysis/incremental.go: file discovery
// now walks C/C++ extensions, and "have this source's tests changed"
// is answered by the canonical substring Test Matcher (internal/match)
// rather than a separate _test.go-style naming convention, so there is
// exactly one definition of "which tests matter to this source."
package incremental

import (
	"context"
	"fmt"
	"os"

	"github.com/gomutate/cmu/internal/config"
	"github.com/gomutate/cmu/internal/match"
)

// HistoryStore is the storage contract the analyzer depends on, satisfied
// directly by internal/history.Store; its TestHash method keeps this
// package from depending on history's concrete Entry type.
type HistoryStore interface {
	TestHash(filePath string) (hash string, ok bool)
	HasChanged(filePath, currentHash string) bool
	HasEntry(filePath string) bool
}

// Analyzer determines which sources need re-mutation given prior history.
type Analyzer struct {
	cfg     *config.Config
	hasher  *FileHasher
	git     *Git
	history HistoryStore
	workDir string
}

// New creates an Analyzer rooted at workDir.
func New(cfg *config.Config, workDir string, historyStore HistoryStore) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		hasher:  NewFileHasher(),
		git:     NewGit(workDir),
		history: historyStore,
		workDir: workDir,
	}
}

// Result is the per-file outcome of one analysis pass.
type Result struct {
	FilePath    string
	NeedsUpdate bool
	Reason      string
}

// Analyze determines, for each discovered source, whether it needs
// re-mutation against testPaths.
func (a *Analyzer) Analyze(ctx context.Context, testPaths []string) ([]Result, error) {
	files, err := a.filesToAnalyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("incremental: failed to list files: %w", err)
	}

	results := make([]Result, 0, len(files))

	for _, f := range files {
		results = append(results, a.analyzeFile(f, testPaths))
	}

	return results, nil
}

func (a *Analyzer) filesToAnalyze(ctx context.Context) ([]string, error) {
	if a.cfg.Incremental.UseGitDiff && a.git.IsRepository() {
		return a.git.ChangedFiles(ctx, a.cfg.Incremental.BaseBranch)
	}

	return a.git.AllSourceFiles()
}

func (a *Analyzer) analyzeFile(filePath string, testPaths []string) Result {
	result := Result{FilePath: filePath}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		result.Reason = "file does not exist"
		return result
	}

	currentHash, err := a.hasher.HashFile(filePath)
	if err != nil {
		result.NeedsUpdate = true
		result.Reason = fmt.Sprintf("failed to hash file: %v", err)

		return result
	}

	if !a.history.HasEntry(filePath) {
		result.NeedsUpdate = true
		result.Reason = "no previous history"

		return result
	}

	if a.history.HasChanged(filePath, currentHash) {
		result.NeedsUpdate = true
		result.Reason = "file content changed"

		return result
	}

	if a.testsChanged(filePath, testPaths) {
		result.NeedsUpdate = true
		result.Reason = "matching tests changed"

		return result
	}

	result.Reason = "no changes detected"

	return result
}

// testsChanged reuses the Test Matcher's substring rule to find the tests
// relevant to filePath, then compares a single hash of their combined
// content against what was recorded at filePath's own last update. This
// must match internal/ci.Engine.updateHistory's recording side exactly
// (same matched-test set, same combining scheme) or every source with
// more than one matching test would appear changed on every run.
func (a *Analyzer) testsChanged(filePath string, testPaths []string) bool {
	recorded, ok := a.history.TestHash(filePath)
	if !ok {
		return true
	}

	matches := match.BySource(testPaths, filePath)
	current := a.hasher.CombinedFileHash(matches)

	return current != recorded
}

// NeedingUpdate returns only the files that need re-mutation.
func (a *Analyzer) NeedingUpdate(ctx context.Context, testPaths []string) ([]string, error) {
	results, err := a.Analyze(ctx, testPaths)
	if err != nil {
		return nil, err
	}

	var out []string

	for _, r := range results {
		if r.NeedsUpdate {
			out = append(out, r.FilePath)
		}
	}

	return out, nil
}
