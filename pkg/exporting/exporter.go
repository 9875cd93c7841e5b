package exporting

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"TopLog/pkg/parsing"
)

// Exporter writes a table to a file or stream in a registered format.
// It implements parsing.RowWriter.
type Exporter struct {
	path   string
	format string
	file   *os.File
	writer Writer
}

// NewExporter creates path (and its directory) and prepares a writer for
// format.
func NewExporter(path, format string, table *Table) (*Exporter, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	e, err := NewStreamExporter(file, format, table)
	if err != nil {
		file.Close()
		return nil, err
	}
	e.path = path
	e.file = file
	return e, nil
}

// NewStreamExporter writes to w, which the caller keeps ownership of.
func NewStreamExporter(w io.Writer, format string, table *Table) (*Exporter, error) {
	f, ok := Get(format)
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	writer := f.Writer()
	if err := writer.Init(w, table); err != nil {
		return nil, fmt.Errorf("failed to initialize writer: %w", err)
	}

	return &Exporter{format: f.Name(), writer: writer}, nil
}

// Path returns the output file path, empty for streams.
func (e *Exporter) Path() string {
	return e.path
}

// Format returns the output format.
func (e *Exporter) Format() string {
	return e.format
}

func (e *Exporter) WriteHeader() error {
	return e.writer.WriteHeader()
}

func (e *Exporter) WriteRow(row parsing.Row) error {
	return e.writer.WriteRow(row)
}

func (e *Exporter) Flush() error {
	return e.writer.Flush()
}

// Close finalizes the writer and closes the file, if any.
func (e *Exporter) Close() error {
	err := e.writer.Close()
	if e.file != nil {
		if cerr := e.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
