// git.go adapts internal/analysis/git.go's Git integration for C/C++
// sources: the `.go`/`_test.go` suffix filters become the collector's
// `.c/.cpp/.h/.hpp` extension set, and file discovery otherwise keeps the
// teacher's merge-base diff and ignore-respecting walk unchanged.
package incremental

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var sourceExtensions = map[string]bool{
	".c": true, ".cpp": true, ".h": true, ".hpp": true,
}

// validBranchName guards against shell/argument injection through a
// user-supplied branch name, same discipline as the teacher's
// isValidBranchName.
var validBranchName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/-]*$`)

// Ignorer decides whether a relative path should be excluded.
type Ignorer interface {
	ShouldIgnore(relPath string) bool
}

// Git provides the git-backed file-discovery operations the incremental
// analyzer needs.
type Git struct {
	workDir string
	ignore  Ignorer
}

// NewGit creates a new Git integration rooted at workDir.
func NewGit(workDir string) *Git {
	return &Git{workDir: workDir}
}

// SetIgnorer installs an ignore filter.
func (g *Git) SetIgnorer(ignore Ignorer) {
	g.ignore = ignore
}

// IsRepository checks if workDir is inside a Git repository.
func (g *Git) IsRepository() bool {
	_, err := os.Stat(filepath.Join(g.workDir, ".git"))
	return err == nil
}

// ChangedFiles returns the C/C++ files changed since the merge-base with
// baseBranch.
func (g *Git) ChangedFiles(ctx context.Context, baseBranch string) ([]string, error) {
	if !g.IsRepository() {
		return nil, fmt.Errorf("incremental: not a git repository")
	}

	if !validBranchName.MatchString(baseBranch) {
		return nil, fmt.Errorf("incremental: invalid base branch name %q", baseBranch)
	}

	mergeBaseCmd := exec.CommandContext(ctx, "git", "merge-base", "HEAD", baseBranch)
	mergeBaseCmd.Dir = g.workDir

	out, err := mergeBaseCmd.Output()
	if err != nil {
		return nil, fmt.Errorf("incremental: failed to get merge base: %w", err)
	}

	mergeBase := strings.TrimSpace(string(out))

	diffCmd := exec.CommandContext(ctx, "git", "diff", "--name-only", mergeBase, "HEAD")
	diffCmd.Dir = g.workDir

	out, err = diffCmd.Output()
	if err != nil {
		return nil, fmt.Errorf("incremental: failed to get changed files: %w", err)
	}

	files := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(files) == 1 && files[0] == "" {
		return []string{}, nil
	}

	var result []string

	for _, f := range files {
		if sourceExtensions[filepath.Ext(f)] {
			result = append(result, filepath.Join(g.workDir, f))
		}
	}

	return result, nil
}

// AllSourceFiles walks workDir for every C/C++ file, honoring the ignore
// filter.
func (g *Git) AllSourceFiles() ([]string, error) {
	var files []string

	err := filepath.Walk(g.workDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") || name == "vendor" {
				return filepath.SkipDir
			}

			if g.ignore != nil {
				if rel, err := filepath.Rel(g.workDir, path); err == nil && g.ignore.ShouldIgnore(rel) {
					return filepath.SkipDir
				}
			}

			return nil
		}

		if !sourceExtensions[filepath.Ext(path)] {
			return nil
		}

		if g.ignore != nil {
			if rel, err := filepath.Rel(g.workDir, path); err == nil && g.ignore.ShouldIgnore(rel) {
				return nil
			}
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("incremental: failed to walk %s: %w", g.workDir, err)
	}

	return files, nil
}

// HasUncommittedChanges checks `git status --porcelain`.
func (g *Git) HasUncommittedChanges(ctx context.Context) (bool, error) {
	if !g.IsRepository() {
		return false, fmt.Errorf("incremental: not a git repository")
	}

	cmd := exec.CommandContext(ctx, "git", "status", "--porcelain")
	cmd.Dir = g.workDir

	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("incremental: failed to check git status: %w", err)
	}

	return strings.TrimSpace(string(out)) != "", nil
}
