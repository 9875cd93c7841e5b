package parsing

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamFormat marks input that does not start with a top header.
	ErrStreamFormat = errors.New("malformed top log")
	// ErrNumericParse marks a value token that is not a number.
	ErrNumericParse = errors.New("invalid numeric value")
	// ErrUnknownSuffix marks a magnitude with an unsupported unit letter.
	ErrUnknownSuffix = errors.New("unknown unit suffix")
)

// StreamFormatError is returned when a line precedes the first snapshot header.
type StreamFormatError struct {
	Line int
	Text string
}

func (e *StreamFormatError) Error() string {
	return fmt.Sprintf("malformed top log; logs must start by %q (line %d: %q)", headerPrefix, e.Line, e.Text)
}

func (e *StreamFormatError) Unwrap() error { return ErrStreamFormat }

// NumericParseError is returned when the value token of a watched process
// cannot be converted to a number.
type NumericParseError struct {
	Line   int
	Column int
	Token  string
	Err    error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse column %d value %q: %v", e.Line, e.Column, e.Token, e.Err)
}

func (e *NumericParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNumericParse}
	}
	return []error{ErrNumericParse, e.Err}
}
