package parsing

import (
	"fmt"
	"strconv"
	"strings"
)

// Metric selects which column of a top process line is collected.
type Metric int

const (
	// Memory collects VIRT, normalized to KiB.
	Memory Metric = iota
	// CPU collects %CPU.
	CPU
)

// Column indices of a `top -b` process line.
const (
	VirtColumn = 4
	CPUColumn  = 8
	NameColumn = 11
)

// Column returns the zero-based token index holding the metric value.
func (m Metric) Column() int {
	if m == CPU {
		return CPUColumn
	}
	return VirtColumn
}

// Precision returns the number of fractional digits printed for the metric.
func (m Metric) Precision() int {
	if m == CPU {
		return 1
	}
	return 0
}

// Format renders v in fixed-point notation with the metric's precision.
func (m Metric) Format(v float64) string {
	return strconv.FormatFloat(v, 'f', m.Precision(), 64)
}

// Round returns v rounded the same way Format prints it.
func (m Metric) Round(v float64) float64 {
	r, err := strconv.ParseFloat(m.Format(v), 64)
	if err != nil {
		return v
	}
	return r
}

// Suffix is the file name suffix used for batch outputs ("mem" or "cpu").
func (m Metric) Suffix() string {
	if m == CPU {
		return "cpu"
	}
	return "mem"
}

// Unit is a human readable unit label for charts.
func (m Metric) Unit() string {
	if m == CPU {
		return "%CPU"
	}
	return "KiB"
}

func (m Metric) String() string {
	switch m {
	case Memory:
		return "mem"
	case CPU:
		return "cpu"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// ParseMetric converts "mem"/"memory"/"virt" or "cpu" into a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mem", "memory", "virt":
		return Memory, nil
	case "cpu", "%cpu":
		return CPU, nil
	}
	return Memory, fmt.Errorf("unknown metric: %q (valid: mem, cpu)", s)
}
