// Package exporting writes converted top time series to files.
package exporting

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"TopLog/pkg/parsing"
)

// Fixed leading columns of every table.
const (
	ColumnHour   = "Hour"
	ColumnMinute = "Minute"
	ColumnSecond = "Second"
)

// Table describes the layout of a converted log.
type Table struct {
	Processes []string
	Metric    parsing.Metric
	RunID     string
	Source    string
	Metadata  map[string]string
}

// Columns returns the header of the table.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.Processes)+3)
	cols = append(cols, ColumnHour, ColumnMinute, ColumnSecond)
	return append(cols, t.Processes...)
}

// checkRow verifies a row fits the table.
func (t *Table) checkRow(row parsing.Row) error {
	if len(row.Values) != len(t.Processes) {
		return fmt.Errorf("row has %d values, table has %d processes", len(row.Values), len(t.Processes))
	}
	return nil
}

// Dataset is a table read back from a file.
type Dataset struct {
	Table Table
	Rows  []parsing.Row
}

// Format defines the interface for a data format.
type Format interface {
	Name() string
	Extensions() []string
	Reader() Reader
	Writer() Writer
}

// Reader reads a converted table from a file.
type Reader interface {
	Open(path string) error
	Read() (*Dataset, error)
	Close() error
}

// Writer streams rows of a table to an io.Writer. Close finalizes the
// encoding but does not close the underlying writer.
type Writer interface {
	parsing.RowWriter
	Init(w io.Writer, table *Table) error
	Close() error
}

// Registry management
var (
	registry    = make(map[string]Format)
	extRegistry = make(map[string]Format)
)

// Register adds a format to the registry.
func Register(f Format) {
	name := strings.ToLower(f.Name())
	registry[name] = f
	for _, ext := range f.Extensions() {
		extRegistry[strings.ToLower(ext)] = f
	}
}

// Get returns a format by name.
func Get(name string) (Format, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// GetByExtension returns a format by file extension.
func GetByExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := extRegistry[ext]
	return f, ok
}

// GetByPath returns a format based on the file's extension.
func GetByPath(path string) (Format, bool) {
	return GetByExtension(filepath.Ext(path))
}

// GetExtension returns the file extension for a format name.
func GetExtension(format string) string {
	switch strings.ToLower(format) {
	case "jsonl", "json":
		return ".jsonl"
	case "parquet":
		return ".parquet"
	case "tsv":
		return ".tsv"
	default:
		return ".csv"
	}
}

// Names returns the registered format names.
func Names() []string {
	return []string{"csv", "tsv", "jsonl", "parquet"}
}

// GuessMetric infers the metric from a batch output name such as
// "top.log-cpu.csv".
func GuessMetric(path string) (parsing.Metric, bool) {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	switch {
	case strings.HasSuffix(base, "-cpu"):
		return parsing.CPU, true
	case strings.HasSuffix(base, "-mem"):
		return parsing.Memory, true
	}
	return parsing.Memory, false
}

// LoadDataset reads a converted table from any registered format.
func LoadDataset(path string) (*Dataset, error) {
	f, ok := GetByPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported format for file: %s", path)
	}

	reader := f.Reader()
	if err := reader.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	ds, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	if ds.Table.Source == "" {
		ds.Table.Source = path
	}
	return ds, nil
}
