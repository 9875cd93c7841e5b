// Package commands provides CLI command implementations.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TopLog/pkg/config"
)

// NewRootCmd creates the root command with all subcommands. Each call gets
// its own configuration.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toplog",
		Short: "Convert top batch logs into per-process CSV time series",
		Long: `toplog reads the output of "top -b" and produces one row per snapshot
with one column per watched process, holding either its memory (VIRT, KiB)
or its CPU usage (%CPU).

Commands:
  convert    Convert a single log (stdin or file)
  find       Convert every top.log[.N] under a directory
  graph      Generate an HTML chart from a converted file
  presets    List the process presets`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewConvertCmd(config.New()),
		NewFindCmd(config.New()),
		NewGraphCmd(config.New()),
		NewPresetsCmd(),
	)

	return root
}

// Execute runs the root command. Interrupts cancel the running conversion.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
