package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"TopLog/pkg/config"
	"TopLog/pkg/graphing"
	"TopLog/pkg/parsing"
)

// NewGraphCmd creates the graph subcommand.
func NewGraphCmd(cfg *config.Config) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Aliases: []string{"g"},
		Use:     "graph <input-file>",
		Short:   "Generate an HTML chart from a converted file",
		Long: `Generate an interactive HTML page with one chart per process from a file
written by convert or find.

Supported input formats: csv, tsv, jsonl, parquet

CSV and TSV files do not store the metric; it is taken from a -cpu or -mem
name suffix unless --metric is given.

Example:
  toplog graph top.log-mem.csv
  toplog graph usage.csv --metric cpu -o cpu.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cfg, args[0], metric, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cfg.GraphOutput, "output", "o", "", "Output HTML file (auto-generated if empty)")
	cmd.Flags().StringVar(&metric, "metric", "", "Metric of the input (mem or cpu)")

	return cmd
}

func runGraph(cfg *config.Config, inputPath, metric string, stdout io.Writer) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	var opts []graphing.GeneratorOption
	if metric != "" {
		m, err := parsing.ParseMetric(metric)
		if err != nil {
			return err
		}
		opts = append(opts, graphing.WithMetric(m))
	}

	gen, err := graphing.NewGenerator(inputPath, cfg.GenerateGraphPath(inputPath), opts...)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	if err := gen.Generate(); err != nil {
		return fmt.Errorf("failed to generate graphs: %w", err)
	}
	fmt.Fprintf(stdout, "Generated graphs in: %s\n", gen.OutputPath())
	return nil
}
