package outwriter

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/huangsam/motionreport/schema"
)

// writeChartScript writes one `var <name> = {...};` data configuration per chart.
// Selectable charts forward clicks to selectTime with the clicked frame index.
func writeChartScript(w io.Writer, out schema.ReportOutput, format valueFormatter) error {
	var b strings.Builder
	for i, g := range out.Groups {
		if i > 0 {
			b.WriteString("\n")
		}
		writeChartVar(&b, g, format)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeChartVar(b *strings.Builder, g schema.ChartGroup, format valueFormatter) {
	fmt.Fprintf(b, "var %s = {\n", g.Var)
	b.WriteString("  columns: [\n")
	for i, s := range g.Series {
		values := make([]string, len(s.Values))
		for j, v := range s.Values {
			values[j] = format.format(s.Name, v)
		}
		fmt.Fprintf(b, "    [%s,%s ]", jsString(s.Name), strings.Join(values, " ,"))
		if i < len(g.Series)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  ],\n")
	b.WriteString("  selection: {\n")
	fmt.Fprintf(b, "    enabled: %t\n", g.SelectionEnabled)
	if g.SelectionEnabled {
		b.WriteString("  },\n")
		b.WriteString("  onclick: function (d) { selectTime(d.index);}\n")
	} else {
		b.WriteString("  }\n")
	}
	b.WriteString("};\n")
}

// jsString quotes a series name as a single-quoted script literal.
func jsString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "</", `<\/`)
	return "'" + r.Replace(s) + "'"
}

// reportPageView is the view model for the standalone report page.
type reportPageView struct {
	Subject string
	Frames  int
	Charts  []reportPageChart
	Summary schema.ReportSummary
	Script  template.JS
}

type reportPageChart struct {
	Key  schema.GroupKey
	Var  string
	Name string
}

const reportPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Motion report: {{.Subject}}</title>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/c3/0.7.20/c3.min.css">
<script src="https://cdnjs.cloudflare.com/ajax/libs/d3/5.16.0/d3.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/c3/0.7.20/c3.min.js"></script>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { padding: 2px 8px; text-align: right; }
.chart { margin-bottom: 2em; }
</style>
</head>
<body>
<h1>Motion report: {{.Subject}}</h1>
<p>{{.Frames}} frames, {{.Summary.ScrubbedFrames}} scrubbed. Selected frame: <span id="selected-frame">none</span></p>
{{range .Charts}}<h2>{{.Name}}</h2>
<div class="chart" id="chart-{{.Key}}"></div>
{{end}}<h2>Summary</h2>
<table>
<tr><th>Group</th><th>Series</th><th>Mean</th><th>Median</th><th>Std dev</th><th>Min</th><th>Max</th></tr>
{{range .Summary.Series}}<tr><td>{{.Group}}</td><td>{{.Name}}</td><td>{{printf "%.3f" .Mean}}</td><td>{{printf "%.3f" .Median}}</td><td>{{printf "%.3f" .StdDev}}</td><td>{{printf "%.3f" .Min}}</td><td>{{printf "%.3f" .Max}}</td></tr>
{{end}}</table>
<script>
function selectTime(index) {
  document.getElementById("selected-frame").textContent = index;
}
{{.Script}}
{{range .Charts}}c3.generate({ bindto: "#chart-{{.Key}}", data: {{chartVar .Var}} });
{{end}}</script>
</body>
</html>
`

var reportPage = template.Must(template.New("report").Funcs(template.FuncMap{
	// Chart variables are emitted as identifiers, not string literals.
	"chartVar": func(name string) template.JS { return template.JS(name) },
}).Parse(reportPageTemplate))

// writeHTMLReport renders a standalone page embedding the chart data configurations.
func writeHTMLReport(w io.Writer, out schema.ReportOutput, summary schema.ReportSummary, format valueFormatter) error {
	var script strings.Builder
	if err := writeChartScript(&script, out, format); err != nil {
		return err
	}

	view := reportPageView{
		Subject: out.Subject,
		Frames:  out.Frames,
		Summary: summary,
		Script:  template.JS(script.String()),
	}
	for _, g := range out.Groups {
		view.Charts = append(view.Charts, reportPageChart{Key: g.Key, Var: g.Var, Name: groupTitle(g.Key)})
	}

	var buf bytes.Buffer
	if err := reportPage.Execute(&buf, view); err != nil {
		return fmt.Errorf("failed to render report page: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// groupTitle names a chart for humans.
func groupTitle(key schema.GroupKey) string {
	switch key {
	case schema.TranslationGroup:
		return "Translation (mm)"
	case schema.RotationGroup:
		return "Rotation (degrees)"
	case schema.DisplacementGroup:
		return "Framewise displacement"
	default:
		return string(key)
	}
}
