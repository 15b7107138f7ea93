// Package collect implements the File Collector: it walks file or directory
// inputs and selects C/C++ sources, grounded on
// original_source/src/parser.py's Parser.collect_c_cpp_files.
package collect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// supportedExtensions are the extensions the collector selects.
var supportedExtensions = map[string]bool{
	".c": true, ".cpp": true, ".h": true, ".hpp": true,
}

// Ignorer decides whether a relative path should be excluded, satisfied by
// internal/ignore.Parser.
type Ignorer interface {
	ShouldIgnore(relPath string) bool
}

// ErrEmptyInput is returned when a collected file list ends up empty.
type ErrEmptyInput struct {
	Kind string // "source" or "test"
}

func (e *ErrEmptyInput) Error() string {
	return fmt.Sprintf("cmu: no %s files found in the given paths", e.Kind)
}

// Files walks each of paths and returns the absolute paths of every C/C++
// file found, honoring ignore (optional). Duplicates are permitted;
// callers are expected to tolerate them. A path that is neither a regular
// file nor a directory is logged and skipped, not an error.
func Files(logger *slog.Logger, paths []string, ignore Ignorer) ([]string, error) {
	var out []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			logger.Warn("path not found, skipping", "path", p, "error", err)
			continue
		}

		if info.IsDir() {
			found, err := walkDir(p, ignore)
			if err != nil {
				return nil, err
			}

			out = append(out, found...)

			continue
		}

		if supportedExtensions[filepath.Ext(p)] {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("collect: %w", err)
			}

			out = append(out, abs)
		} else {
			logger.Warn("unsupported extension, skipping", "path", p)
		}
	}

	return out, nil
}

func walkDir(root string, ignore Ignorer) ([]string, error) {
	var out []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if name != "." && (name == "vendor" || name[0] == '.') {
				return filepath.SkipDir
			}

			return nil
		}

		if !supportedExtensions[filepath.Ext(path)] {
			return nil
		}

		if ignore != nil {
			if rel, err := filepath.Rel(root, path); err == nil && ignore.ShouldIgnore(rel) {
				return nil
			}
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		out = append(out, abs)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect: failed to walk %s: %w", root, err)
	}

	return out, nil
}

// RequireNonEmpty returns ErrEmptyInput(kind) when files is empty.
func RequireNonEmpty(files []string, kind string) error {
	if len(files) == 0 {
		return &ErrEmptyInput{Kind: kind}
	}

	return nil
}
