package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

const headerPrefix = "top - "

// HeaderPattern matches the first line of a `top -b` snapshot. The hour
// field accepts 00-29.
const HeaderPattern = `^top - ([0-2][0-9]):([0-5][0-9]):([0-5][0-9])`

// State is the position of a Detector within the stream.
type State int

const (
	AwaitingFirstHeader State = iota
	InSnapshot
)

func (s State) String() string {
	if s == InSnapshot {
		return "in-snapshot"
	}
	return "awaiting-first-header"
}

// LineKind classifies an input line.
type LineKind int

const (
	// LineSkip lines carry nothing and are dropped.
	LineSkip LineKind = iota
	// LineHeader lines open a new snapshot.
	LineHeader
	// LineData lines belong to the current snapshot.
	LineData
)

// Timestamp is the wall clock time printed in a snapshot header.
type Timestamp struct {
	Hour   int
	Minute int
	Second int
}

// Detector finds snapshot boundaries in a top log.
type Detector struct {
	pattern *regexp.Regexp
	state   State
}

// NewDetector returns a Detector using pattern, or HeaderPattern when nil.
// The pattern must capture hour, minute and second as its first three
// groups; lines whose groups are not numbers are not headers.
func NewDetector(pattern *regexp.Regexp) *Detector {
	if pattern == nil {
		pattern = regexp.MustCompile(HeaderPattern)
	}
	return &Detector{pattern: pattern, state: AwaitingFirstHeader}
}

// State returns the current detector state.
func (d *Detector) State() State {
	return d.state
}

// Match reports whether line is a snapshot header and returns its timestamp.
// It does not change the detector state.
func (d *Detector) Match(line string) (Timestamp, bool) {
	m := d.pattern.FindStringSubmatch(line)
	if m == nil || len(m) < 4 {
		return Timestamp{}, false
	}
	var clock [3]int
	for i := range clock {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Timestamp{}, false
		}
		clock[i] = v
	}
	return Timestamp{Hour: clock[0], Minute: clock[1], Second: clock[2]}, true
}

// Observe classifies line number lineNo and advances the state machine.
// Any non-blank line seen before the first header is a StreamFormatError.
func (d *Detector) Observe(lineNo int, line string) (LineKind, Timestamp, error) {
	if ts, ok := d.Match(line); ok {
		d.state = InSnapshot
		return LineHeader, ts, nil
	}

	if d.state == AwaitingFirstHeader {
		if strings.TrimSpace(line) == "" {
			return LineSkip, Timestamp{}, nil
		}
		return LineSkip, Timestamp{}, &StreamFormatError{Line: lineNo, Text: line}
	}

	return LineData, Timestamp{}, nil
}
