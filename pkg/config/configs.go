// Package config provides configuration management for toplog.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"TopLog/pkg/exporting"
	"TopLog/pkg/parsing"
)

// Config holds all toplog configuration options.
type Config struct {
	// Metric selection, exactly one must be set
	Memory bool
	CPU    bool
	Metric parsing.Metric

	// Process selection
	Preset    string
	Processes []string

	// Input/output settings
	InputFile    string
	OutputFile   string
	OutputFormat string
	MaxLineSize  int

	// Graph settings
	GenerateGraphs bool
	GraphOutput    string

	// Run identification
	RunID    string
	Hostname string
}

// Default configuration values.
const (
	DefaultFormat      = "csv"
	DefaultGraphSuffix = "_graphs.html"
	StdStream          = "-"
)

// New creates a Config with default values.
func New() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		OutputFormat: DefaultFormat,
		MaxLineSize:  parsing.MaxLineSize,
		RunID:        uuid.NewString(),
		Hostname:     hostname,
	}
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultFormat
	}
	if c.MaxLineSize <= 0 {
		c.MaxLineSize = parsing.MaxLineSize
	}
	if c.Hostname == "" {
		c.Hostname, _ = os.Hostname()
	}
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
}

// ResolveMetric sets Metric from the --mem/--cpu switches.
func (c *Config) ResolveMetric() error {
	if c.Memory == c.CPU {
		return fmt.Errorf("only one of --cpu or --mem must be specified")
	}
	if c.CPU {
		c.Metric = parsing.CPU
	} else {
		c.Metric = parsing.Memory
	}
	return nil
}

// Resolve validates the switches and builds the process list from the
// preset and the names given on the command line.
func (c *Config) Resolve(names []string) error {
	c.ApplyDefaults()
	if err := c.ResolveMetric(); err != nil {
		return err
	}
	procs, err := ResolveProcesses(c.Preset, names)
	if err != nil {
		return err
	}
	c.Processes = procs
	return c.Validate()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !isValidOutputFormat(c.OutputFormat) {
		return fmt.Errorf("invalid output format: %s (valid: %s)", c.OutputFormat, strings.Join(ValidOutputFormats(), ", "))
	}
	if len(c.Processes) == 0 {
		return fmt.Errorf("at least one process must be specified")
	}
	return nil
}

// ValidateGraphTarget checks that a single-stream conversion writes a file
// the graph can be read back from.
func (c *Config) ValidateGraphTarget() error {
	if c.GenerateGraphs && c.OutputIsStream() {
		return fmt.Errorf("--graph needs --output-file")
	}
	return nil
}

// ValidOutputFormats returns the list of supported output formats.
func ValidOutputFormats() []string {
	return exporting.Names()
}

func isValidOutputFormat(format string) bool {
	for _, f := range ValidOutputFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// OutputIsStream reports whether output goes to stdout.
func (c *Config) OutputIsStream() bool {
	return c.OutputFile == "" || c.OutputFile == StdStream
}

// InputIsStream reports whether input comes from stdin.
func (c *Config) InputIsStream() bool {
	return c.InputFile == "" || c.InputFile == StdStream
}

// OutputPathFor derives the batch output path of a discovered log, e.g.
// "top.log.1" -> "top.log.1-cpu.csv".
func (c *Config) OutputPathFor(input string) string {
	return input + "-" + c.Metric.Suffix() + exporting.GetExtension(c.OutputFormat)
}

// GenerateGraphPath creates the graph output path for a data file.
func (c *Config) GenerateGraphPath(dataFile string) string {
	if c.GraphOutput != "" {
		return c.GraphOutput
	}
	return GraphPathFor(dataFile)
}

// GraphPathFor places the graph next to its data file, e.g.
// "top.log-mem.csv" -> "top.log-mem_graphs.html".
func GraphPathFor(dataFile string) string {
	dir := filepath.Dir(dataFile)
	base := filepath.Base(dataFile)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]

	return filepath.Join(dir, name+DefaultGraphSuffix)
}

// Table builds the export layout for one conversion of source.
func (c *Config) Table(source string) *exporting.Table {
	return &exporting.Table{
		Processes: c.Processes,
		Metric:    c.Metric,
		RunID:     c.RunID,
		Source:    source,
		Metadata:  c.RunMetadata(),
	}
}

// RunMetadata describes the host the conversion ran on.
func (c *Config) RunMetadata() map[string]string {
	meta := map[string]string{
		"toplog.hostname": c.Hostname,
	}
	if kernel := KernelRelease(); kernel != "" {
		meta["toplog.kernel"] = kernel
	}
	if c.Preset != "" {
		meta["toplog.preset"] = c.Preset
	}
	return meta
}
