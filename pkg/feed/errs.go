package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTimestampColumn indicates the header has no timestamp column.
	ErrMissingTimestampColumn = errors.New("feed: timestamp column not found")

	// ErrUnknownColumn indicates a requested feed column is not in the header.
	ErrUnknownColumn = errors.New("feed: unknown column")

	// ErrLengthMismatch indicates WritePowerCSV got a different number of names and series.
	ErrLengthMismatch = errors.New("feed: names and series differ in length")
)

// ConversionError reports a cell that does not hold a number.
type ConversionError struct {
	Feed  string
	Line  int
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("feed %q line %d: cannot convert %q to float64: %v", e.Feed, e.Line, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// TimestampError reports a timestamp cell that does not match the layout.
type TimestampError struct {
	Line  int
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("line %d: invalid timestamp %q: %v", e.Line, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }
