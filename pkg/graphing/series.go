package graphing

import (
	"fmt"

	"TopLog/pkg/exporting"
	"TopLog/pkg/parsing"
)

// Series holds the time series of one process column.
type Series struct {
	Name   string
	Labels []string
	Values []float64
	Deltas []float64
}

// Stats summarizes a series.
type Stats struct {
	Min, Max, Mean, Last float64
	MaxAt                string
}

// clockLabel formats a row timestamp as HH:MM:SS.
func clockLabel(row parsing.Row) string {
	return fmt.Sprintf("%02d:%02d:%02d", row.Hour, row.Minute, row.Second)
}

// buildSeries splits a dataset into one series per process, in column order.
func buildSeries(ds *exporting.Dataset) []*Series {
	labels := make([]string, len(ds.Rows))
	for i, row := range ds.Rows {
		labels[i] = clockLabel(row)
	}

	series := make([]*Series, len(ds.Table.Processes))
	for col, name := range ds.Table.Processes {
		s := &Series{
			Name:   name,
			Labels: labels,
			Values: make([]float64, len(ds.Rows)),
		}
		for i, row := range ds.Rows {
			if col < len(row.Values) {
				s.Values[i] = row.Values[col]
			}
		}
		s.Deltas = deltas(s.Values)
		series[col] = s
	}
	return series
}

// deltas returns the change between consecutive snapshots.
func deltas(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// HasChange reports whether the series ever moves.
func (s *Series) HasChange() bool {
	for _, d := range s.Deltas {
		if d != 0 {
			return true
		}
	}
	return false
}

// Stats computes min, max, mean and last value. Empty series yield zeros.
func (s *Series) Stats() Stats {
	var st Stats
	if len(s.Values) == 0 {
		return st
	}
	st.Min, st.Max = s.Values[0], s.Values[0]
	st.MaxAt = s.Labels[0]
	var sum float64
	for i, v := range s.Values {
		sum += v
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
			st.MaxAt = s.Labels[i]
		}
	}
	st.Mean = sum / float64(len(s.Values))
	st.Last = s.Values[len(s.Values)-1]
	return st
}
