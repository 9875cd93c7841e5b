package exporting

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"TopLog/pkg/parsing"
)

const (
	DefaultBufferSize = 64 * 1024
	MaxLineSize       = 10 * 1024 * 1024
)

func init() {
	Register(&JSONLFormat{})
}

// JSONLFormat handles JSON Lines format.
type JSONLFormat struct{}

func (f *JSONLFormat) Name() string         { return "jsonl" }
func (f *JSONLFormat) Extensions() []string { return []string{".jsonl"} }
func (f *JSONLFormat) Reader() Reader       { return &JSONLReader{} }
func (f *JSONLFormat) Writer() Writer       { return &JSONLWriter{} }

// jsonRecord is one snapshot serialized as a JSON line.
type jsonRecord struct {
	Hour   int                `json:"hour"`
	Minute int                `json:"minute"`
	Second int                `json:"second"`
	Metric string             `json:"metric"`
	RunID  string             `json:"run_id,omitempty"`
	Values map[string]float64 `json:"values"`
}

// JSONLReader reads JSONL files written by JSONLWriter.
type JSONLReader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
}

func (r *JSONLReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	r.path = path
	r.file = file
	r.scanner = bufio.NewScanner(file)
	r.scanner.Buffer(make([]byte, DefaultBufferSize), MaxLineSize)
	return nil
}

// Read decodes every line. Process columns are sorted by name since JSON
// objects carry no order.
func (r *JSONLReader) Read() (*Dataset, error) {
	var records []jsonRecord
	names := make(map[string]struct{})
	lineNum := 0
	for r.scanner.Scan() {
		lineNum++
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec jsonRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		for name := range rec.Values {
			names[name] = struct{}{}
		}
		records = append(records, rec)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	ds := &Dataset{Table: Table{Source: r.path}}
	for name := range names {
		ds.Table.Processes = append(ds.Table.Processes, name)
	}
	sort.Strings(ds.Table.Processes)

	if len(records) > 0 {
		if m, err := parsing.ParseMetric(records[0].Metric); err == nil {
			ds.Table.Metric = m
		}
		ds.Table.RunID = records[0].RunID
	}

	for _, rec := range records {
		row := parsing.NewRow(parsing.Timestamp{Hour: rec.Hour, Minute: rec.Minute, Second: rec.Second}, len(ds.Table.Processes))
		for i, name := range ds.Table.Processes {
			row.Values[i] = rec.Values[name]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func (r *JSONLReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// JSONLWriter writes one JSON object per row.
type JSONLWriter struct {
	table  *Table
	writer *bufio.Writer
	mu     sync.Mutex
}

func (w *JSONLWriter) Init(out io.Writer, table *Table) error {
	if table == nil {
		return fmt.Errorf("table is required")
	}
	w.table = table
	w.writer = bufio.NewWriterSize(out, DefaultBufferSize)
	return nil
}

// WriteHeader is a no-op: every line is self describing.
func (w *JSONLWriter) WriteHeader() error { return nil }

func (w *JSONLWriter) WriteRow(row parsing.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.table.checkRow(row); err != nil {
		return err
	}

	rec := jsonRecord{
		Hour:   row.Hour,
		Minute: row.Minute,
		Second: row.Second,
		Metric: w.table.Metric.String(),
		RunID:  w.table.RunID,
		Values: make(map[string]float64, len(row.Values)),
	}
	for i, v := range row.Values {
		rec.Values[w.table.Processes[i]] = w.table.Metric.Round(v)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (w *JSONLWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

func (w *JSONLWriter) Close() error {
	return w.Flush()
}
