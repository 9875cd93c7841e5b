package parsing

// MinDataTokens is the number of fields a process line must have.
const MinDataTokens = NameColumn + 1

// Row is one snapshot: its timestamp and one value per watched process.
type Row struct {
	Hour   int
	Minute int
	Second int
	Values []float64
}

// NewRow returns a zero-filled row for ts with width columns.
func NewRow(ts Timestamp, width int) Row {
	return Row{
		Hour:   ts.Hour,
		Minute: ts.Minute,
		Second: ts.Second,
		Values: make([]float64, width),
	}
}

// Aggregator adds process line values into the column of their process.
type Aggregator struct {
	metric Metric
	index  map[string]int
	width  int
}

// NewAggregator indexes processes by name. Processes must be deduplicated;
// on duplicates the first occurrence owns the column.
func NewAggregator(processes []string, metric Metric) *Aggregator {
	index := make(map[string]int, len(processes))
	for i, p := range processes {
		if _, ok := index[p]; !ok {
			index[p] = i
		}
	}
	return &Aggregator{metric: metric, index: index, width: len(processes)}
}

// Width returns the number of columns rows must have.
func (a *Aggregator) Width() int {
	return a.width
}

// Accumulate adds the value of a process line to values. It reports whether
// the line belonged to a watched process. Short lines and unknown processes
// are ignored.
func (a *Aggregator) Accumulate(lineNo int, values []float64, tokens []string) (bool, error) {
	if len(tokens) < MinDataTokens {
		return false, nil
	}

	i, ok := a.index[tokens[NameColumn]]
	if !ok {
		return false, nil
	}

	col := a.metric.Column()
	v, err := Normalize(tokens[col])
	if err != nil {
		return false, &NumericParseError{Line: lineNo, Column: col, Token: tokens[col], Err: err}
	}

	values[i] += v
	return true, nil
}
