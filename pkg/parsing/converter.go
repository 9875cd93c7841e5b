// Package parsing turns `top -b` batch logs into per-process time series.
//
// A Converter reads a log line by line. Each header line ("top - HH:MM:SS")
// opens a Row; process lines that follow add the selected metric into the
// column of their process. A row is handed to the RowWriter as soon as the
// next header or the end of input closes it, so memory use is bounded by a
// single row.
package parsing

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
)

const (
	DefaultBufferSize = 64 * 1024
	MaxLineSize       = 1024 * 1024
)

// RowWriter receives the rows of a conversion.
type RowWriter interface {
	// WriteHeader writes the column header. It is called exactly once
	// per successful conversion, before the first row.
	WriteHeader() error
	WriteRow(row Row) error
	Flush() error
}

// Stats summarizes one conversion.
type Stats struct {
	Lines     int
	Snapshots int
	Matched   int
	Ignored   int
}

// Converter converts top logs for a fixed process list and metric. It holds
// no per-run state and may be reused for several inputs.
type Converter struct {
	processes   []string
	metric      Metric
	pattern     *regexp.Regexp
	aggregator  *Aggregator
	maxLineSize int
}

// Option configures a Converter.
type Option func(*Converter)

// WithMaxLineSize sets the longest accepted input line.
func WithMaxLineSize(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.maxLineSize = n
		}
	}
}

// NewConverter creates a converter for processes, in column order.
func NewConverter(processes []string, metric Metric, opts ...Option) *Converter {
	procs := make([]string, len(processes))
	copy(procs, processes)

	c := &Converter{
		processes:   procs,
		metric:      metric,
		pattern:     regexp.MustCompile(HeaderPattern),
		maxLineSize: MaxLineSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.aggregator = NewAggregator(c.processes, metric)
	return c
}

// Processes returns the column names, in order.
func (c *Converter) Processes() []string {
	return c.processes
}

// Metric returns the collected metric.
func (c *Converter) Metric() Metric {
	return c.metric
}

// Convert reads a top log from r and writes its rows to w. Nothing is
// written when the input does not start with a header. The context is
// checked between lines.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w RowWriter) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, DefaultBufferSize), c.maxLineSize)

	detector := NewDetector(c.pattern)
	headerWritten := false
	var current Row
	open := false

	emit := func(row Row) error {
		if !headerWritten {
			if err := w.WriteHeader(); err != nil {
				return fmt.Errorf("failed to write header: %w", err)
			}
			headerWritten = true
		}
		if err := w.WriteRow(row); err != nil {
			return fmt.Errorf("failed to write row %02d:%02d:%02d: %w", row.Hour, row.Minute, row.Second, err)
		}
		return nil
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++
		line := scanner.Text()

		kind, ts, err := detector.Observe(stats.Lines, line)
		if err != nil {
			return stats, err
		}

		switch kind {
		case LineHeader:
			if open {
				if err := emit(current); err != nil {
					return stats, err
				}
			}
			current = NewRow(ts, c.aggregator.Width())
			open = true
			stats.Snapshots++

		case LineData:
			matched, err := c.aggregator.Accumulate(stats.Lines, current.Values, Tokenize(line))
			if err != nil {
				return stats, err
			}
			if matched {
				stats.Matched++
			} else {
				stats.Ignored++
			}

		default:
			stats.Ignored++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}

	if open {
		if err := emit(current); err != nil {
			return stats, err
		}
	}
	if !headerWritten {
		if err := w.WriteHeader(); err != nil {
			return stats, fmt.Errorf("failed to write header: %w", err)
		}
	}

	return stats, w.Flush()
}
