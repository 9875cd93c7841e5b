// Package graphing renders converted top logs as interactive HTML charts.
package graphing

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"

	"TopLog/pkg/exporting"
	"TopLog/pkg/parsing"
)

// Generator creates an HTML chart page from a converted data file.
type Generator struct {
	inputPath  string
	outputPath string
	metric     *parsing.Metric
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithMetric sets the metric of the input instead of reading it from the
// file. Delimited files only carry it in their name.
func WithMetric(m parsing.Metric) GeneratorOption {
	return func(g *Generator) {
		g.metric = &m
	}
}

// NewGenerator creates a new graph generator.
func NewGenerator(inputPath, outputPath string, opts ...GeneratorOption) (*Generator, error) {
	if inputPath == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if outputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	g := &Generator{
		inputPath:  inputPath,
		outputPath: outputPath,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// OutputPath returns the HTML file written by Generate.
func (g *Generator) OutputPath() string {
	return g.outputPath
}

// Generate loads the input file and writes the chart page.
func (g *Generator) Generate() error {
	ds, err := exporting.LoadDataset(g.inputPath)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if g.metric != nil {
		ds.Table.Metric = *g.metric
	}
	return g.GenerateFromDataset(ds)
}

// GenerateFromDataset writes the chart page for ds.
func (g *Generator) GenerateFromDataset(ds *exporting.Dataset) error {
	if len(ds.Rows) < 2 {
		return fmt.Errorf("need at least 2 snapshots to generate graphs, got %d", len(ds.Rows))
	}
	if len(ds.Table.Processes) == 0 {
		return fmt.Errorf("no process columns in %s", ds.Table.Source)
	}

	series := buildSeries(ds)
	metric := ds.Table.Metric

	page := components.NewPage()
	page.PageTitle = pageTitle(ds)
	page.AddCharts(createOverviewChart(series, metric))

	chartsAdded := 1
	for _, s := range series {
		page.AddCharts(createLineChart(s, metric, false))
		chartsAdded++

		if s.HasChange() {
			page.AddCharts(createLineChart(s, metric, true))
			chartsAdded++
		}
	}

	// Render to buffer first
	var buf strings.Builder
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}

	info, err := renderRunInfo(ds, series)
	if err != nil {
		return err
	}
	htmlContent := strings.Replace(buf.String(), "<body>", "<body>\n"+info, 1)
	htmlContent = strings.Replace(htmlContent, "</head>", runInfoCSS+"</head>", 1)

	if dir := filepath.Dir(g.outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(g.outputPath, []byte(htmlContent), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Printf("Generated graphs: %s (%d charts)", g.outputPath, chartsAdded)
	return nil
}

func pageTitle(ds *exporting.Dataset) string {
	title := "toplog - " + filepath.Base(ds.Table.Source)
	if ds.Table.RunID != "" {
		title += " (" + ds.Table.RunID + ")"
	}
	return title
}
