// Package scan implements the lexical scanner: a single-pass state machine
// that locates mutation sites in C/C++ text while masking comments, string
// literals, character literals and preprocessor lines.
package scan

import (
	"strings"

	"github.com/gomutate/cmu/internal/model"
)

// lineState tracks the one bit of state that survives across lines: whether
// we are inside a block comment. LineComment/String/Char are transient and
// reset at every newline.
type lineState struct {
	inBlockComment bool
}

// Sites returns, in order of occurrence, every mutation site found in src.
// It never returns an error: a source with zero recognizable sites simply
// yields an empty slice, per the scanner's "never raises" failure mode.
func Sites(src string) []model.Site {
	var sites []model.Site

	st := &lineState{}
	lines := strings.Split(src, "\n")

	for lineIdx, raw := range lines {
		masked := maskLine(raw, st)

		if isPreprocessorLine(masked) {
			continue
		}

		sites = append(sites, findOperators(lineIdx, raw, masked)...)
	}

	return sites
}

// maskLine replaces every comment, string literal and character literal byte
// with a single space, preserving the original width (and therefore column
// indices). Block-comment state carries across the call via st.
func maskLine(line string, st *lineState) string {
	out := []byte(line)

	i := 0
	for i < len(out) {
		if st.inBlockComment {
			if i+1 < len(out) && out[i] == '*' && out[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				st.inBlockComment = false
				i += 2
			} else {
				out[i] = ' '
				i++
			}

			continue
		}

		switch {
		case i+1 < len(out) && out[i] == '/' && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			st.inBlockComment = true
			i += 2
		case i+1 < len(out) && out[i] == '/' && out[i+1] == '/':
			for i < len(out) {
				out[i] = ' '
				i++
			}
		case out[i] == '"':
			i = maskDelimited(out, i, '"')
		case out[i] == '\'':
			i = maskDelimited(out, i, '\'')
		default:
			i++
		}
	}

	return string(out)
}

// maskDelimited masks a quoted run starting at i (which holds the opening
// delimiter), honoring backslash escapes, and returns the index just past
// the run (the closing delimiter, if found, is masked too).
func maskDelimited(buf []byte, i int, delim byte) int {
	buf[i] = ' '
	i++

	for i < len(buf) {
		c := buf[i]
		if c == '\\' && i+1 < len(buf) {
			buf[i] = ' '
			buf[i+1] = ' '
			i += 2

			continue
		}

		buf[i] = ' '
		i++

		if c == delim {
			return i
		}
	}

	return i
}

func isPreprocessorLine(masked string) bool {
	return strings.HasPrefix(strings.TrimSpace(masked), "#")
}

// findOperators scans the masked line left to right, trying operators
// longest-first at each position so that a multi-character operator shadows
// its single-character prefix, and advances past any match.
func findOperators(lineIdx int, original, masked string) []model.Site {
	var sites []model.Site

	col := 0
	for col < len(masked) {
		op, matched := matchAt(masked, col)
		if !matched {
			col++
			continue
		}

		if sane(original, col, op) {
			sites = append(sites, model.Site{Line: lineIdx, Column: col, Operator: op})
		}

		col += len(op)
	}

	return sites
}

func matchAt(s string, col int) (model.Operator, bool) {
	for _, op := range model.OperatorsByLength {
		if strings.HasPrefix(s[col:], string(op)) {
			return op, true
		}
	}

	return "", false
}

// sane re-checks the match against the original (unmasked) line: the slice
// must still be the expected operator text and must not be the start of a
// comment that the masker failed to catch.
func sane(original string, col int, op model.Operator) bool {
	end := col + len(op)
	if end > len(original) {
		return false
	}

	segment := original[col:end]
	if segment != string(op) {
		return false
	}

	if op == model.OpDiv {
		if strings.HasPrefix(original[col:], "/*") || strings.HasPrefix(original[col:], "//") {
			return false
		}
	}

	return true
}
