// Package model holds the data types shared across the mutation-testing
// pipeline: sites, mutants, verdicts and run statistics.
package model

import "fmt"

// Operator is one of the recognized textual operators the scanner can find
// and the rewriter can substitute.
type Operator string

const (
	OpAdd    Operator = "+"
	OpSub    Operator = "-"
	OpMul    Operator = "*"
	OpDiv    Operator = "/"
	OpEq     Operator = "=="
	OpNeq    Operator = "!="
	OpGt     Operator = ">"
	OpLt     Operator = "<"
	OpGe     Operator = ">="
	OpLe     Operator = "<="
	OpAndAnd Operator = "&&"
	OpOrOr   Operator = "||"
)

// MutationTable is the fixed, single-valued original->mutant operator
// mapping. There are no alternative mutants for a given operator.
var MutationTable = map[Operator]Operator{
	OpAdd:    OpSub,
	OpSub:    OpAdd,
	OpMul:    OpDiv,
	OpDiv:    OpMul,
	OpEq:     OpNeq,
	OpNeq:    OpEq,
	OpGt:     OpLt,
	OpLt:     OpGt,
	OpGe:     OpLe,
	OpLe:     OpGe,
	OpAndAnd: OpOrOr,
	OpOrOr:   OpAndAnd,
}

// Operators in length-descending order, so that longer operators are tried
// before their single-character prefixes (">=" before ">").
var OperatorsByLength = []Operator{
	OpEq, OpNeq, OpGe, OpLe, OpAndAnd, OpOrOr,
	OpAdd, OpSub, OpMul, OpDiv, OpGt, OpLt,
}

// UnknownFunc is the sentinel function name used when no enclosing function
// can be attributed to a mutation site.
const UnknownFunc = "unknownfunc"

// Site is a single candidate mutation location within a source file.
type Site struct {
	Line     int // zero-based line index
	Column   int // zero-based byte offset within the raw line
	Operator Operator
}

// Mutant is one rewritten source variant, localized to a single function.
type Mutant struct {
	ID         string
	SourcePath string
	Function   string
	Index      int
	Site       Site
	Content    string // full mutated source text
	Ext        string // preserved source extension, including the dot
}

// ArtifactName returns the mutant's on-disk file name, per the
// "mutant_<source_base>_<func>_<index>.<ext>" convention.
func (m Mutant) ArtifactName() string {
	return fmt.Sprintf("mutant_%s_%s_%d%s", baseNoExt(m.SourcePath), m.Function, m.Index, m.Ext)
}

func baseNoExt(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' || base[i] == '\\' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

// Verdict is the final classification of a mutant.
type Verdict string

const (
	VerdictKilled   Verdict = "KILLED"
	VerdictSurvived Verdict = "SURVIVED"
)

// KillReason distinguishes why a mutant was killed, for the detail report
// only; it never changes the summary table.
type KillReason string

const (
	KillReasonNone  KillReason = ""
	KillReasonBuild KillReason = "build"
	KillReasonTest  KillReason = "test"
)

// TestOutcome records the result of running one (mutant, test) pair.
type TestOutcome struct {
	Mutant     Mutant
	TestPath   string
	Verdict    Verdict
	KillReason KillReason
	BuildLog   string
	RunLog     string
}

// MutantResult is the overall outcome for a single mutant after its
// short-circuiting test loop completes.
type MutantResult struct {
	Mutant   Mutant
	Verdict  Verdict
	Outcomes []TestOutcome // one per test actually executed, in execution order
}

// Stats holds the monotonically-accumulated run totals.
type Stats struct {
	Total    int
	Killed   int
	Survived int
}

// Score returns the mutation score as a percentage, or -1 when there are no
// mutants (the reporter renders that as "N/A").
func (s Stats) Score() float64 {
	if s.Total == 0 {
		return -1
	}
	return float64(s.Killed) / float64(s.Total) * 100
}
