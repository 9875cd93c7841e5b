package exporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"TopLog/pkg/parsing"
)

func init() {
	Register(&CSVFormat{})
	Register(&TSVFormat{})
}

// CSVFormat handles CSV files.
type CSVFormat struct{}

func (f *CSVFormat) Name() string         { return "csv" }
func (f *CSVFormat) Extensions() []string { return []string{".csv"} }
func (f *CSVFormat) Reader() Reader       { return &DelimitedReader{delimiter: ','} }
func (f *CSVFormat) Writer() Writer       { return &DelimitedWriter{delimiter: ','} }

// TSVFormat handles TSV files.
type TSVFormat struct{}

func (f *TSVFormat) Name() string         { return "tsv" }
func (f *TSVFormat) Extensions() []string { return []string{".tsv"} }
func (f *TSVFormat) Reader() Reader       { return &DelimitedReader{delimiter: '\t'} }
func (f *TSVFormat) Writer() Writer       { return &DelimitedWriter{delimiter: '\t'} }

// DelimitedReader reads CSV/TSV files written by DelimitedWriter.
type DelimitedReader struct {
	path      string
	file      *os.File
	reader    *csv.Reader
	header    []string
	delimiter rune
}

// Open opens the file and reads the header row.
func (r *DelimitedReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	r.path = path
	r.file = file
	r.reader = csv.NewReader(file)
	r.reader.Comma = r.delimiter
	r.reader.FieldsPerRecord = -1

	header, err := r.reader.Read()
	if err != nil {
		_ = r.file.Close()
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 3 || header[0] != ColumnHour || header[1] != ColumnMinute || header[2] != ColumnSecond {
		_ = r.file.Close()
		return fmt.Errorf("unexpected header: %v", header)
	}
	r.header = header
	return nil
}

// Read parses all rows from the file.
func (r *DelimitedReader) Read() (*Dataset, error) {
	metric, _ := GuessMetric(r.path)
	ds := &Dataset{
		Table: Table{
			Processes: append([]string(nil), r.header[3:]...),
			Metric:    metric,
			Source:    r.path,
		},
	}

	for {
		rec, err := r.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := r.parseRow(rec)
		if err != nil {
			line, _ := r.reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

func (r *DelimitedReader) parseRow(rec []string) (parsing.Row, error) {
	if len(rec) != len(r.header) {
		return parsing.Row{}, fmt.Errorf("expected %d fields, got %d", len(r.header), len(rec))
	}

	var clock [3]int
	for i := range clock {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return parsing.Row{}, fmt.Errorf("invalid %s: %w", r.header[i], err)
		}
		clock[i] = v
	}

	row := parsing.NewRow(parsing.Timestamp{Hour: clock[0], Minute: clock[1], Second: clock[2]}, len(rec)-3)
	for i, val := range rec[3:] {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return parsing.Row{}, fmt.Errorf("invalid value for %s: %w", r.header[i+3], err)
		}
		row.Values[i] = f
	}
	return row, nil
}

// Close closes the underlying file handle.
func (r *DelimitedReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// DelimitedWriter writes CSV/TSV rows with the metric's fixed precision.
type DelimitedWriter struct {
	table     *Table
	writer    *csv.Writer
	delimiter rune
	record    []string
	mu        sync.Mutex
}

// Init prepares the writer.
func (w *DelimitedWriter) Init(out io.Writer, table *Table) error {
	if table == nil {
		return fmt.Errorf("table is required")
	}
	w.table = table
	w.writer = csv.NewWriter(out)
	w.writer.Comma = w.delimiter
	w.record = make([]string, len(table.Processes)+3)
	return nil
}

// WriteHeader writes "Hour,Minute,Second" followed by the process names.
func (w *DelimitedWriter) WriteHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Write(w.table.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteRow writes a single row.
func (w *DelimitedWriter) WriteRow(row parsing.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.table.checkRow(row); err != nil {
		return err
	}

	w.record[0] = strconv.Itoa(row.Hour)
	w.record[1] = strconv.Itoa(row.Minute)
	w.record[2] = strconv.Itoa(row.Second)
	for i, v := range row.Values {
		w.record[i+3] = w.table.Metric.Format(v)
	}

	if err := w.writer.Write(w.record); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *DelimitedWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		w.writer.Flush()
		return w.writer.Error()
	}
	return nil
}

// Close flushes the buffer.
func (w *DelimitedWriter) Close() error {
	return w.Flush()
}
