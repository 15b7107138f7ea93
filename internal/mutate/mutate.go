// Package mutate implements the mutant rewriter: given a source text and a
// mutation site, it produces a new source text with exactly one operator
// substitution applied.
package mutate

import (
	"fmt"
	"strings"

	"github.com/gomutate/cmu/internal/model"
)

// ErrDesync is returned when the slice at the recorded site no longer
// matches the expected operator, indicating scanner/rewriter desynchronization.
type ErrDesync struct {
	Path   string
	Line   int
	Column int
	Want   model.Operator
	Got    string
}

func (e *ErrDesync) Error() string {
	return fmt.Sprintf("%s:%d:%d: expected operator %q, found %q (internal error)",
		e.Path, e.Line+1, e.Column, e.Want, e.Got)
}

// Apply rewrites src at site, replacing the original operator with its fixed
// mutant per model.MutationTable. It verifies the slice still holds the
// expected operator before mutating; a mismatch returns *ErrDesync and must
// abort only the offending mutant, not the run.
func Apply(path, src string, site model.Site) (string, error) {
	mutant, ok := model.MutationTable[site.Operator]
	if !ok {
		return "", fmt.Errorf("mutate: no mutation mapping for operator %q", site.Operator)
	}

	lines := strings.Split(src, "\n")
	if site.Line < 0 || site.Line >= len(lines) {
		return "", &ErrDesync{Path: path, Line: site.Line, Column: site.Column, Want: site.Operator, Got: ""}
	}

	line := lines[site.Line]
	end := site.Column + len(site.Operator)

	if end > len(line) || line[site.Column:end] != string(site.Operator) {
		got := ""
		if site.Column < len(line) {
			got = line[site.Column:min(end, len(line))]
		}

		return "", &ErrDesync{Path: path, Line: site.Line, Column: site.Column, Want: site.Operator, Got: got}
	}

	lines[site.Line] = line[:site.Column] + string(mutant) + line[end:]

	return strings.Join(lines, "\n"), nil
}
