// Package ignore filters the C/C++ sources the File Collector walks,
// combining built-in patterns for the artifacts a native build leaves
// behind with project-specific patterns loaded from a .cmuignore file.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Parser matches file paths against a layered set of gitignore-style
// patterns: built-in defaults tuned for C/C++ build output, followed by
// whatever a project's .cmuignore adds on top.
type Parser struct {
	patterns []Pattern
}

// Pattern is one ignore rule.
type Pattern struct {
	Pattern string
	Negate  bool // true if pattern starts with '!'
}

// defaultPatterns are skipped without any .cmuignore present: out-of-tree
// build directories CMake and autotools leave behind, and the compiled
// artifacts a C/C++ toolchain produces alongside sources. Mutating a copy
// of a header that a build system staged into build/ wastes a mutant on
// code nothing will ever recompile from.
var defaultPatterns = []string{
	"build/",
	"cmake-build-*/",
	"out/",
	"obj/",
	".git/",
	".cmu/",
	"mutants_output/",
	"*.o",
	"*.obj",
	"*.so",
	"*.dylib",
	"*.a",
	"*.exe",
}

// New creates a parser preloaded with defaultPatterns. Call LoadFromFile
// or LoadFromReader afterwards to layer a project's own .cmuignore rules
// on top, mirroring how gitignore combines global and repo-local ignores.
func New() *Parser {
	p := Empty()
	for _, pat := range defaultPatterns {
		p.patterns = append(p.patterns, Pattern{Pattern: pat})
	}

	return p
}

// Empty creates a parser with no patterns loaded, bypassing the C/C++
// build-artifact defaults. Used by tests that want to exercise pattern
// matching in isolation.
func Empty() *Parser {
	return &Parser{patterns: make([]Pattern, 0)}
}

// LoadFromFile layers the patterns in a .cmuignore file on top of
// whatever the parser already holds.
func (p *Parser) LoadFromFile(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to open .cmuignore file: %w", err)
	}
	defer file.Close()

	return p.LoadFromReader(file)
}

// LoadFromReader layers gitignore-style patterns read from reader.
func (p *Parser) LoadFromReader(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pattern := Pattern{Pattern: line}

		if strings.HasPrefix(line, "!") {
			pattern.Pattern = strings.TrimPrefix(line, "!")
			pattern.Negate = true
		}

		p.patterns = append(p.patterns, pattern)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read patterns: %w", err)
	}

	return nil
}

// ShouldIgnore reports whether filePath matches the loaded patterns, with
// later patterns overriding earlier ones (so a negated pattern can carve
// an exception out of an earlier directory or glob match).
func (p *Parser) ShouldIgnore(filePath string) bool {
	normalizedPath := filepath.ToSlash(filePath)

	ignored := false

	for _, pattern := range p.patterns {
		if p.matchPattern(pattern.Pattern, normalizedPath) {
			ignored = !pattern.Negate
		}
	}

	return ignored
}

// matchPattern checks a single pattern against filePath.
func (p *Parser) matchPattern(pattern, filePath string) bool {
	pattern = filepath.ToSlash(pattern)

	if strings.HasPrefix(pattern, "**/") {
		return matchAnyDepth(strings.TrimPrefix(pattern, "**/"), filePath)
	}

	if strings.HasSuffix(pattern, "/") {
		return p.matchDirectoryPattern(pattern, filePath)
	}

	if strings.Contains(pattern, "*") {
		if matched, err := filepath.Match(pattern, filepath.Base(filePath)); err == nil && matched {
			return true
		}

		if matched, err := filepath.Match(pattern, filePath); err == nil && matched {
			return true
		}
	}

	if pattern == filePath || pattern == filepath.Base(filePath) {
		return true
	}

	if strings.Contains(pattern, "/") && strings.HasSuffix(filePath, pattern) {
		return true
	}

	return false
}

// matchAnyDepth matches suffix (itself possibly a glob) against filePath
// rooted at any directory depth, so "**/*.generated.h" reaches a
// generated header however deeply CMake nested it.
func matchAnyDepth(suffix, filePath string) bool {
	parts := strings.Split(filePath, "/")

	for i := range parts {
		candidate := strings.Join(parts[i:], "/")
		if matched, err := filepath.Match(suffix, candidate); err == nil && matched {
			return true
		}
	}

	return false
}

// matchDirectoryPattern handles patterns ending in '/', including glob
// directory names like "cmake-build-*/". A single-segment directory name
// matches only the first segment of filePath; use a "**/" prefix to reach
// deeper directories.
func (p *Parser) matchDirectoryPattern(pattern, filePath string) bool {
	dirPattern := strings.TrimSuffix(pattern, "/")

	if !strings.Contains(dirPattern, "/") {
		parts := strings.Split(filePath, "/")

		return matchSegment(dirPattern, parts[0]) && (len(parts) > 1 || filePath == dirPattern)
	}

	if strings.HasPrefix(filePath, dirPattern+"/") || filePath == dirPattern {
		return true
	}

	return false
}

// matchSegment compares a single path segment against a (possibly glob)
// directory-name pattern.
func matchSegment(pattern, segment string) bool {
	if strings.Contains(pattern, "*") {
		matched, err := filepath.Match(pattern, segment)
		return err == nil && matched
	}

	return pattern == segment
}

// GetPatterns returns all loaded patterns, defaults included.
func (p *Parser) GetPatterns() []Pattern {
	return p.patterns
}

// FindIgnoreFile walks from startPath up to the filesystem root looking
// for a .cmuignore file.
func FindIgnoreFile(startPath string) (string, error) {
	if startPath == "" {
		startPath = "."
	}

	dir, err := filepath.Abs(startPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	if stat, err := os.Stat(dir); err == nil && !stat.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		ignoreFile := filepath.Join(dir, ".cmuignore")
		if _, err := os.Stat(ignoreFile); err == nil {
			return ignoreFile, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return "", nil
}
