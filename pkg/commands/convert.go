package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"TopLog/pkg/config"
	"TopLog/pkg/discovery"
	"TopLog/pkg/exporting"
	"TopLog/pkg/graphing"
	"TopLog/pkg/parsing"
)

// NewConvertCmd creates the convert subcommand.
func NewConvertCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Aliases: []string{"c"},
		Use:     "convert [processes...]",
		Short:   "Convert a top log to a per-process time series",
		Long: `Read a "top -b" log from stdin (or --input-file) and write one row per
snapshot to stdout (or --output-file). At least one process must be given,
either as arguments or through --preset.

Rows are written as soon as each snapshot ends. If a later line cannot be
parsed the command fails, and rows already printed to stdout stay there;
an --output-file is removed instead.

Example:
  top -b -d 60 | toplog convert --mem worker dbserver
  toplog convert --cpu -p ecs -i top.log -o top.log-cpu.csv --graph`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cfg, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cfg.AddSelectionFlags(cmd)
	cfg.AddInputFlags(cmd)
	cfg.AddOutputFlags(cmd)
	cfg.AddGraphFlags(cmd)
	cfg.AddSystemFlags(cmd)

	return cmd
}

func runConvert(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	if err := cfg.Resolve(args); err != nil {
		return err
	}
	if err := cfg.ValidateGraphTarget(); err != nil {
		return err
	}

	in := stdin
	source := "stdin"
	if !cfg.InputIsStream() {
		f, err := discovery.OpenLog(cfg.InputFile)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer f.Close()
		in = f
		source = cfg.InputFile
	}

	var exp *exporting.Exporter
	var err error
	if cfg.OutputIsStream() {
		exp, err = exporting.NewStreamExporter(stdout, cfg.OutputFormat, cfg.Table(source))
	} else {
		exp, err = exporting.NewExporter(cfg.OutputFile, cfg.OutputFormat, cfg.Table(source))
	}
	if err != nil {
		return fmt.Errorf("error opening output: %w", err)
	}

	conv := parsing.NewConverter(cfg.Processes, cfg.Metric, parsing.WithMaxLineSize(cfg.MaxLineSize))
	stats, err := conv.Convert(ctx, in, exp)
	closeErr := exp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		if exp.Path() != "" {
			_ = os.Remove(exp.Path())
		}
		return err
	}

	log.Printf("Converted %s to %s: %d snapshots, %d process lines matched (%d lines read)",
		source, exp.Format(), stats.Snapshots, stats.Matched, stats.Lines)

	if cfg.GenerateGraphs {
		gen, err := graphing.NewGenerator(exp.Path(), cfg.GenerateGraphPath(exp.Path()), graphing.WithMetric(conv.Metric()))
		if err != nil {
			return fmt.Errorf("failed to create generator: %w", err)
		}
		if err := gen.Generate(); err != nil {
			return fmt.Errorf("failed to generate graphs: %w", err)
		}
	}
	return nil
}
