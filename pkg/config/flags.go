package config

import (
	"strings"

	"github.com/spf13/cobra"
)

// AddSelectionFlags adds the metric and process selection flags to a command.
func (c *Config) AddSelectionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&c.CPU, "cpu", "c", c.CPU, "Gather CPU usage for each process. One of --cpu or --mem must be specified, only.")
	flags.BoolVarP(&c.Memory, "mem", "m", c.Memory, "Gather memory usage for each process. One of --cpu or --mem must be specified, only.")
	flags.StringVarP(&c.Preset, "preset", "p", c.Preset,
		"Preset is one of '"+strings.Join(PresetNames(), "', '")+"'. Processes given as arguments are added to the preset.")
	cmd.MarkFlagsMutuallyExclusive("cpu", "mem")
}

// AddInputFlags adds the single-stream input/output flags to a command.
func (c *Config) AddInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.InputFile, "input-file", "i", c.InputFile, "Input file to read from, instead of stdin")
	flags.StringVarP(&c.OutputFile, "output-file", "o", c.OutputFile, "Output file to write to, instead of stdout")
}

// AddOutputFlags adds output format flags to a command.
func (c *Config) AddOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.OutputFormat, "format", c.OutputFormat, "Output format ("+strings.Join(ValidOutputFormats(), ", ")+")")
	flags.IntVar(&c.MaxLineSize, "max-line-size", c.MaxLineSize, "Longest accepted input line in bytes")
}

// AddGraphFlags adds graph generation flags to a command.
func (c *Config) AddGraphFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&c.GenerateGraphs, "graph", "g", c.GenerateGraphs, "Also render an HTML chart of the output")
	flags.StringVar(&c.GraphOutput, "graph-output", c.GraphOutput, "Graph output file (auto-generated if empty)")
}

// AddSystemFlags adds run identification flags to a command.
func (c *Config) AddSystemFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.RunID, "run-id", c.RunID, "Run ID stored in output metadata (auto-generated if empty)")
	flags.StringVar(&c.Hostname, "hostname", c.Hostname, "Hostname override")
}
