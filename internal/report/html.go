package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gomutate/cmu/internal/model"
)

// htmlTemplate is a compact ambient dashboard, grounded on
// internal/report/generator.go's htmlTemplate but scaled down to the
// fields this domain's Summary actually carries.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Mutation Testing Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.stats { display: flex; gap: 1rem; margin-bottom: 1.5rem; }
.stat { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; min-width: 8rem; text-align: center; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.6rem; text-align: left; font-size: 0.9rem; }
tr.killed { background: #e6f7e6; }
tr.survived { background: #fdecea; }
</style>
</head>
<body>
<h1>Mutation Testing Report</h1>
<div class="stats">
  <div class="stat"><div>{{.Stats.Total}}</div><div>Total</div></div>
  <div class="stat"><div>{{.Stats.Killed}}</div><div>Killed</div></div>
  <div class="stat"><div>{{.Stats.Survived}}</div><div>Survived</div></div>
  <div class="stat"><div>{{.ScoreText}}</div><div>Score</div></div>
</div>
<table>
<tr><th>No.</th><th>Source File</th><th>Mutant File</th><th>Test File</th><th>Result</th></tr>
{{range $i, $row := .Details}}
<tr class="{{$row.RowClass}}">
  <td>{{inc $i}}</td><td>{{$row.SourceFile}}</td><td>{{$row.MutantFile}}</td><td>{{$row.TestFile}}</td><td>{{$row.Result}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`

type htmlDetailRow struct {
	DetailRow
	RowClass string
}

// killedResultStrings mirror the strings FromResults produces for killed
// mutants, so the HTML renderer can color rows without re-deriving them.
var killedResultStrings = map[string]bool{
	"KILLED (build)": true,
	"KILLED (test)":  true,
	"KILLED":         true,
}

func (r htmlDetailRow) rowClass() string {
	if killedResultStrings[r.Result] {
		return "killed"
	}

	return "survived"
}

func renderHTML(s Summary) string {
	type viewModel struct {
		Stats     model.Stats
		ScoreText string
		Details   []htmlDetailRow
	}

	scoreText := "N/A"
	if s.Stats.Total > 0 {
		scoreText = fmt.Sprintf("%.1f%%", s.Stats.Score())
	}

	rows := make([]htmlDetailRow, 0, len(s.Details))
	for _, d := range s.Details {
		row := htmlDetailRow{DetailRow: d}
		row.RowClass = row.rowClass()
		rows = append(rows, row)
	}

	vm := viewModel{Stats: s.Stats, ScoreText: scoreText, Details: rows}

	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(htmlTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vm); err != nil {
		return ""
	}

	return buf.String()
}
