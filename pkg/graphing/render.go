package graphing

import (
	"bytes"
	"fmt"
	"html/template"

	"TopLog/pkg/exporting"
	"TopLog/pkg/parsing"
)

// RunInfoData feeds the summary panel shown above the charts.
type RunInfoData struct {
	Source    string
	RunID     string
	Metric    string
	Unit      string
	Snapshots int
	First     string
	Last      string
	Processes []ProcessSummary
}

// ProcessSummary is one row of the summary table.
type ProcessSummary struct {
	Name  string
	Min   string
	Max   string
	MaxAt string
	Mean  string
	Last  string
}

const runInfoCSS = `<style>
.run-info { max-width: 1400px; margin: 0 auto 20px; padding: 15px; background: #f5f5f5; border: 1px solid #ddd;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; font-size: 13px; }
.run-info h1 { margin: 0 0 4px; font-size: 18px; }
.run-info .run-id { font-size: 11px; color: #666; font-family: monospace; }
.run-info table { border-collapse: collapse; margin-top: 10px; }
.run-info th, .run-info td { padding: 3px 12px; border-bottom: 1px solid #ddd; text-align: right; }
.run-info th:first-child, .run-info td:first-child { text-align: left; }
</style>
`

var runInfoTemplate = template.Must(template.New("run_info").Parse(`
<div class="run-info">
  <h1>{{.Source}}</h1>
  {{if .RunID}}<div class="run-id">Run: {{.RunID}}</div>{{end}}
  <div>{{.Snapshots}} snapshots from {{.First}} to {{.Last}}, metric {{.Metric}} ({{.Unit}})</div>
  <table>
    <tr><th>Process</th><th>Min</th><th>Max</th><th>Max at</th><th>Mean</th><th>Last</th></tr>
    {{range .Processes}}
    <tr><td>{{.Name}}</td><td>{{.Min}}</td><td>{{.Max}}</td><td>{{.MaxAt}}</td><td>{{.Mean}}</td><td>{{.Last}}</td></tr>
    {{end}}
  </table>
</div>
`))

// buildRunInfo summarizes a dataset for the panel.
func buildRunInfo(ds *exporting.Dataset, series []*Series) RunInfoData {
	metric := ds.Table.Metric
	data := RunInfoData{
		Source:    ds.Table.Source,
		RunID:     ds.Table.RunID,
		Metric:    metric.String(),
		Unit:      metric.Unit(),
		Snapshots: len(ds.Rows),
	}
	if len(ds.Rows) > 0 {
		data.First = clockLabel(ds.Rows[0])
		data.Last = clockLabel(ds.Rows[len(ds.Rows)-1])
	}

	for _, s := range series {
		st := s.Stats()
		data.Processes = append(data.Processes, ProcessSummary{
			Name:  s.Name,
			Min:   formatValue(st.Min, metric),
			Max:   formatValue(st.Max, metric),
			MaxAt: st.MaxAt,
			Mean:  formatValue(st.Mean, metric),
			Last:  formatValue(st.Last, metric),
		})
	}
	return data
}

// renderRunInfo renders the summary panel as HTML.
func renderRunInfo(ds *exporting.Dataset, series []*Series) (string, error) {
	var buf bytes.Buffer
	if err := runInfoTemplate.Execute(&buf, buildRunInfo(ds, series)); err != nil {
		return "", fmt.Errorf("failed to execute run_info template: %w", err)
	}
	return buf.String(), nil
}

// formatValue prints CPU values as percentages and memory in binary units.
func formatValue(v float64, metric parsing.Metric) string {
	if metric == parsing.CPU {
		return metric.Format(v) + "%"
	}
	return formatKiB(v)
}

// formatKiB formats a KiB amount into human-readable form.
func formatKiB(kib float64) string {
	units := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	v := kib
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", v, units[i])
	}
	return fmt.Sprintf("%.1f %s", v, units[i])
}
