package exporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/parquet-go/parquet-go"

	"TopLog/pkg/parsing"
)

const ParquetBatchSize = 1000

// Key-value metadata stored in the parquet footer.
const (
	MetaProcesses = "toplog.processes"
	MetaMetric    = "toplog.metric"
	MetaRunID     = "toplog.run_id"
	MetaSource    = "toplog.source"
)

func init() {
	Register(&ParquetFormat{})
}

// ParquetFormat handles Parquet files.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extensions() []string { return []string{".parquet"} }
func (f *ParquetFormat) Reader() Reader       { return &ParquetReader{} }
func (f *ParquetFormat) Writer() Writer       { return &ParquetWriter{} }

// ParquetReader reads Parquet files written by ParquetWriter.
type ParquetReader struct {
	path  string
	file  *os.File
	pfile *parquet.File
}

func (r *ParquetReader) Open(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	r.path = path
	r.file = file

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to open parquet file: %w", err)
	}
	r.pfile = pf

	return nil
}

func (r *ParquetReader) Read() (*Dataset, error) {
	if r.pfile == nil {
		return nil, fmt.Errorf("reader not initialized")
	}

	// Leaf paths are in column index order.
	leaves := r.pfile.Schema().Columns()
	names := make([]string, len(leaves))
	for i, path := range leaves {
		names[i] = path[len(path)-1]
	}

	ds := &Dataset{Table: Table{Source: r.path}}
	if v, ok := r.pfile.Lookup(MetaProcesses); ok {
		if err := json.Unmarshal([]byte(v), &ds.Table.Processes); err != nil {
			return nil, fmt.Errorf("invalid %s metadata: %w", MetaProcesses, err)
		}
	} else {
		for _, name := range names {
			if name != ColumnHour && name != ColumnMinute && name != ColumnSecond {
				ds.Table.Processes = append(ds.Table.Processes, name)
			}
		}
	}
	if v, ok := r.pfile.Lookup(MetaMetric); ok {
		if m, err := parsing.ParseMetric(v); err == nil {
			ds.Table.Metric = m
		}
	}
	ds.Table.RunID, _ = r.pfile.Lookup(MetaRunID)

	position := make(map[string]int, len(ds.Table.Processes))
	for i, p := range ds.Table.Processes {
		position[p] = i
	}

	rowBuf := make([]parquet.Row, 100)
	for _, rg := range r.pfile.RowGroups() {
		rows := rg.Rows()

		for {
			n, err := rows.ReadRows(rowBuf)
			for i := 0; i < n; i++ {
				ds.Rows = append(ds.Rows, r.convertRow(rowBuf[i], names, position, len(ds.Table.Processes)))
			}

			if err != nil {
				if err != io.EOF {
					rows.Close()
					return nil, fmt.Errorf("failed to read rows: %w", err)
				}
				break
			}
			if n == 0 {
				break
			}
		}
		rows.Close()
	}

	return ds, nil
}

func (r *ParquetReader) convertRow(prow parquet.Row, names []string, position map[string]int, width int) parsing.Row {
	row := parsing.NewRow(parsing.Timestamp{}, width)
	for _, val := range prow {
		col := val.Column()
		if col < 0 || col >= len(names) || val.IsNull() {
			continue
		}
		switch name := names[col]; name {
		case ColumnHour:
			row.Hour = int(val.Int32())
		case ColumnMinute:
			row.Minute = int(val.Int32())
		case ColumnSecond:
			row.Second = int(val.Int32())
		default:
			if i, ok := position[name]; ok {
				row.Values[i] = val.Double()
			}
		}
	}
	return row
}

func (r *ParquetReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParquetWriter writes Parquet files using the Row API. Values are stored
// rounded to the metric precision, like the CSV output.
type ParquetWriter struct {
	out     io.Writer
	table   *Table
	schema  *parquet.Schema
	index   []int
	writer  *parquet.Writer
	buffer  []parquet.Row
	started bool
	mu      sync.Mutex
}

func (w *ParquetWriter) Init(out io.Writer, table *Table) error {
	if table == nil {
		return fmt.Errorf("table is required")
	}

	group := parquet.Group{
		ColumnHour:   parquet.Int(32),
		ColumnMinute: parquet.Int(32),
		ColumnSecond: parquet.Int(32),
	}
	for _, p := range table.Processes {
		if _, dup := group[p]; dup {
			return fmt.Errorf("duplicate column name: %s", p)
		}
		group[p] = parquet.Leaf(parquet.DoubleType)
	}
	w.schema = parquet.NewSchema("toplog", group)

	// Group fields are sorted by name; map table columns to leaf indexes.
	cols := table.Columns()
	w.index = make([]int, len(cols))
	for i, name := range cols {
		leaf, ok := w.schema.Lookup(name)
		if !ok {
			return fmt.Errorf("column %s missing from schema", name)
		}
		w.index[i] = leaf.ColumnIndex
	}

	w.out = out
	w.table = table
	w.buffer = make([]parquet.Row, 0, ParquetBatchSize)
	return nil
}

// WriteHeader starts the parquet stream; nothing is written before it.
func (w *ParquetWriter) WriteHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil
	}

	processes, err := json.Marshal(w.table.Processes)
	if err != nil {
		return fmt.Errorf("failed to encode processes: %w", err)
	}

	w.writer = parquet.NewWriter(w.out, w.schema,
		parquet.Compression(&parquet.Snappy),
		parquet.KeyValueMetadata(MetaProcesses, string(processes)),
		parquet.KeyValueMetadata(MetaMetric, w.table.Metric.String()),
		parquet.KeyValueMetadata(MetaRunID, w.table.RunID),
		parquet.KeyValueMetadata(MetaSource, w.table.Source),
	)
	for k, v := range w.table.Metadata {
		w.writer.SetKeyValueMetadata(k, v)
	}
	w.started = true
	return nil
}

func (w *ParquetWriter) recordToRow(row parsing.Row) parquet.Row {
	prow := make(parquet.Row, len(w.index))
	prow[w.index[0]] = parquet.Int32Value(int32(row.Hour)).Level(0, 0, w.index[0])
	prow[w.index[1]] = parquet.Int32Value(int32(row.Minute)).Level(0, 0, w.index[1])
	prow[w.index[2]] = parquet.Int32Value(int32(row.Second)).Level(0, 0, w.index[2])
	for i, v := range row.Values {
		idx := w.index[i+3]
		prow[idx] = parquet.DoubleValue(w.table.Metric.Round(v)).Level(0, 0, idx)
	}
	return prow
}

func (w *ParquetWriter) WriteRow(row parsing.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return fmt.Errorf("header not written")
	}
	if err := w.table.checkRow(row); err != nil {
		return err
	}

	w.buffer = append(w.buffer, w.recordToRow(row))
	if len(w.buffer) >= ParquetBatchSize {
		return w.flushBuffer()
	}
	return nil
}

func (w *ParquetWriter) flushBuffer() error {
	if len(w.buffer) == 0 || w.writer == nil {
		return nil
	}

	if _, err := w.writer.WriteRows(w.buffer); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}

	w.buffer = w.buffer[:0]
	return nil
}

func (w *ParquetWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.flushBuffer()
}

// Close writes the footer. A writer that never started writes nothing.
func (w *ParquetWriter) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writer != nil {
		err := w.writer.Close()
		w.writer = nil
		return err
	}
	return nil
}
