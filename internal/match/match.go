// Package match implements the Test Matcher: a two-level substring match on
// basenames (without extension) that pairs sources with tests, and
// attributed functions with a further subset of those tests.
package match

import (
	"path/filepath"
	"strings"
)

func baseNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BySource returns the subset of testPaths whose basename (without
// extension) contains sourcePath's basename (without extension) as a
// substring.
func BySource(testPaths []string, sourcePath string) []string {
	sourceBase := baseNoExt(sourcePath)
	if sourceBase == "" {
		return nil
	}

	var out []string

	for _, t := range testPaths {
		if strings.Contains(baseNoExt(t), sourceBase) {
			out = append(out, t)
		}
	}

	return out
}

// ByFunction further narrows sourceMatches to the subset whose basename also
// contains funcName as a substring.
func ByFunction(sourceMatches []string, funcName string) []string {
	if funcName == "" {
		return nil
	}

	var out []string

	for _, t := range sourceMatches {
		if strings.Contains(baseNoExt(t), funcName) {
			out = append(out, t)
		}
	}

	return out
}
