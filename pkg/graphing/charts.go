package graphing

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"TopLog/pkg/parsing"
)

// createLineChart creates a line chart for raw or delta values of one process.
func createLineChart(s *Series, metric parsing.Metric, isDelta bool) *charts.Line {
	line := charts.NewLine()

	title := s.Name
	subtitle := metric.Unit() + " per snapshot"
	if isDelta {
		title += " (Delta)"
		subtitle = "Change of " + metric.Unit() + " between snapshots"
	} else {
		title += " (Raw)"
	}

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time", Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: metric.Unit(), Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	labels := s.Labels
	values := s.Values
	if isDelta {
		labels = s.Labels[1:]
		values = s.Deltas
	}

	line.SetXAxis(labels).AddSeries(s.Name, lineData(values, metric),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false), ShowSymbol: opts.Bool(true)}),
	)

	if isDelta {
		line.SetSeriesOptions(charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}))
	}

	return line
}

// createOverviewChart overlays every process on one chart.
func createOverviewChart(series []*Series, metric parsing.Metric) *charts.Line {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "All processes", Subtitle: metric.Unit()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time", Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: metric.Unit(), Type: "value"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "500px"}),
	)

	if len(series) == 0 {
		return line
	}
	line.SetXAxis(series[0].Labels)
	for _, s := range series {
		line.AddSeries(s.Name, lineData(s.Values, metric))
	}
	return line
}

func lineData(values []float64, metric parsing.Metric) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: metric.Round(v)}
	}
	return data
}
