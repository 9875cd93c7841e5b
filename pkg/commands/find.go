package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"TopLog/pkg/config"
	"TopLog/pkg/discovery"
	"TopLog/pkg/exporting"
	"TopLog/pkg/graphing"
	"TopLog/pkg/parsing"
)

// NewFindCmd creates the find subcommand.
func NewFindCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"f"},
		Use:     "find <dir> [processes...]",
		Short:   "Convert every top.log[.N] found under a directory",
		Long: `Search <dir> recursively for files named top.log or top.log.<digit> and
write each conversion next to its log as <log>-mem.csv or <log>-cpu.csv.
Files that cannot be read or converted are reported and skipped.

Example:
  toplog find /var/log/servers --cpu -p all
  toplog find . --mem worker --format parquet --graph`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd.Context(), cfg, args[0], args[1:])
		},
	}

	cfg.AddSelectionFlags(cmd)
	cfg.AddOutputFlags(cmd)
	cmd.Flags().BoolVarP(&cfg.GenerateGraphs, "graph", "g", cfg.GenerateGraphs, "Also render an HTML chart next to each output")
	cfg.AddSystemFlags(cmd)

	return cmd
}

func runFind(ctx context.Context, cfg *config.Config, root string, names []string) error {
	if err := cfg.Resolve(names); err != nil {
		return err
	}

	finder, err := discovery.NewFinder(root, cfg.OutputPathFor)
	if err != nil {
		return err
	}

	conv := parsing.NewConverter(cfg.Processes, cfg.Metric, parsing.WithMaxLineSize(cfg.MaxLineSize))
	open := func(input, output string) (discovery.Sink, error) {
		return exporting.NewExporter(output, cfg.OutputFormat, cfg.Table(input))
	}

	sum, err := finder.Run(ctx, conv, open)
	if err != nil {
		return fmt.Errorf("batch aborted after %d files: %w", sum.Found, err)
	}
	log.Printf("Done: %d found, %d written, %d skipped, %d failed", sum.Found, sum.Written, sum.Skipped, sum.Failed)

	if cfg.GenerateGraphs {
		for _, out := range sum.Outputs {
			gen, err := graphing.NewGenerator(out, config.GraphPathFor(out), graphing.WithMetric(conv.Metric()))
			if err != nil {
				return fmt.Errorf("failed to create generator: %w", err)
			}
			if err := gen.Generate(); err != nil {
				log.Printf("Warning: no graph for %s: %v", out, err)
			}
		}
	}
	return nil
}
