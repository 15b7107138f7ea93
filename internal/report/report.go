// Package report renders a Summary as the fixed-width ASCII table that is
// the primary, spec-mandated output (grounded on
// original_source/src/reporter.py's Reporter.report_results), plus
// supplemental JSON and HTML formats in the teacher's idiom
// (internal/report/generator.go).
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gomutate/cmu/internal/model"
)

// DetailRow is one row of the optional detail table.
type DetailRow struct {
	SourceFile string
	MutantFile string
	TestFile   string
	Result     string
}

// Summary is everything the reporter needs to render a run.
type Summary struct {
	Stats    model.Stats
	Details  []DetailRow
	Duration time.Duration
	Version  string
}

// Format selects the rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// FromResults builds a Summary from orchestrator results, preserving
// recorded order (no sorting, per spec.md §4.9).
func FromResults(stats model.Stats, results []model.MutantResult, duration time.Duration, version string) Summary {
	s := Summary{Stats: stats, Duration: duration, Version: version}

	for _, r := range results {
		for _, o := range r.Outcomes {
			result := string(o.Verdict)
			if o.Verdict == model.VerdictKilled && o.KillReason == model.KillReasonBuild {
				result = "KILLED (build)"
			} else if o.Verdict == model.VerdictKilled && o.KillReason == model.KillReasonTest {
				result = "KILLED (test)"
			}

			s.Details = append(s.Details, DetailRow{
				SourceFile: r.Mutant.SourcePath,
				MutantFile: r.Mutant.ArtifactName(),
				TestFile:   o.TestPath,
				Result:     result,
			})
		}

		if len(r.Outcomes) == 0 {
			s.Details = append(s.Details, DetailRow{
				SourceFile: r.Mutant.SourcePath,
				MutantFile: r.Mutant.ArtifactName(),
				TestFile:   "-",
				Result:     string(r.Verdict),
			})
		}
	}

	return s
}

// Render renders s in the given format. An unrecognized format falls back
// to FormatText, matching the teacher's "default to the safe format"
// posture in internal/report/generator.go.
func Render(s Summary, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(s)
	case FormatHTML:
		return renderHTML(s), nil
	default:
		return renderText(s), nil
	}
}

func renderText(s Summary) string {
	var b bytes.Buffer

	total, killed, survived := s.Stats.Total, s.Stats.Killed, s.Stats.Survived

	fmt.Fprintln(&b, "\nMutation Testing Report")
	fmt.Fprintln(&b, "+----------------+---------+")
	fmt.Fprintln(&b, "| Result         | Count   |")
	fmt.Fprintln(&b, "+----------------+---------+")
	fmt.Fprintf(&b, "| Total mutants  | %-7s |\n", humanize.Comma(int64(total)))
	fmt.Fprintf(&b, "| Killed         | %-7s |\n", humanize.Comma(int64(killed)))
	fmt.Fprintf(&b, "| Survived       | %-7s |\n", humanize.Comma(int64(survived)))
	fmt.Fprintln(&b, "+----------------+---------+")

	if total > 0 {
		score := s.Stats.Score()
		fmt.Fprintf(&b, "| Mutation Score | %6.1f%% |\n", score)
	} else {
		fmt.Fprintln(&b, "| Mutation Score |   N/A   |")
	}

	fmt.Fprintln(&b, "+----------------+---------+")

	if s.Duration > 0 {
		fmt.Fprintf(&b, "Elapsed: %s\n", humanizeDuration(s.Duration))
	}

	if len(s.Details) > 0 {
		fmt.Fprintln(&b, "\nDetailed Mutant/Test Results:")
		fmt.Fprintln(&b, "+-----+-------------------------+------------------------------+------------------------------+----------+")
		fmt.Fprintln(&b, "| No. | Source File             | Mutant File                  | Test File                    | Result   |")
		fmt.Fprintln(&b, "+-----+-------------------------+------------------------------+------------------------------+----------+")

		for i, row := range s.Details {
			fmt.Fprintf(&b, "| %-3d | %-23s | %-28s | %-28s | %-8s |\n",
				i+1,
				truncate(filepath.Base(row.SourceFile), 23),
				truncate(filepath.Base(row.MutantFile), 28),
				truncate(filepath.Base(row.TestFile), 28),
				row.Result,
			)
		}

		fmt.Fprintln(&b, "+-----+-------------------------+------------------------------+------------------------------+----------+")
	}

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}

func humanizeDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func renderJSON(s Summary) (string, error) {
	payload := struct {
		Total    int             `json:"total"`
		Killed   int             `json:"killed"`
		Survived int             `json:"survived"`
		Score    float64         `json:"mutationScore"`
		Duration string          `json:"duration"`
		Version  string          `json:"version"`
		Details  []DetailRow     `json:"details"`
	}{
		Total:    s.Stats.Total,
		Killed:   s.Stats.Killed,
		Survived: s.Stats.Survived,
		Score:    s.Stats.Score(),
		Duration: s.Duration.String(),
		Version:  s.Version,
		Details:  s.Details,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report: failed to marshal JSON: %w", err)
	}

	return string(data), nil
}
