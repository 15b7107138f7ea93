package incremental

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// FileHasher provides file hashing functionality, grounded on (and
// reused near-verbatim from) internal/analysis/filehash.go — pure
// content hashing has no Go-vs-C/C++ specificity.
type FileHasher struct{}

// NewFileHasher creates a new file hasher.
func NewFileHasher() *FileHasher {
	return &FileHasher{}
}

// HashFile calculates the SHA256 hash of a file.
func (h *FileHasher) HashFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// HashContent calculates the SHA256 hash of content.
func (h *FileHasher) HashContent(content []byte) string {
	hash := sha256.New()
	hash.Write(content)

	return fmt.Sprintf("%x", hash.Sum(nil))
}

// CombinedFileHash hashes the concatenated bytes of paths in order,
// unreadable paths skipped. Used on both the write side (recording a
// source's relevant tests) and the read side (checking whether they
// changed), so the two must select paths identically — the caller is
// responsible for passing the same matched-test set both times.
func (h *FileHasher) CombinedFileHash(paths []string) string {
	var combined []byte

	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		combined = append(combined, content...)
	}

	return h.HashContent(combined)
}
