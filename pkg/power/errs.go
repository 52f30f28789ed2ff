package power

import (
	"errors"
	"fmt"
	"time"
)

// ErrZeroInterval indicates two consecutive surviving readings share a timestamp,
// so no elapsed time exists to divide the energy delta by.
var ErrZeroInterval = errors.New("power: zero interval between readings")

// IntervalError locates the reading that closed a zero-length interval.
type IntervalError struct {
	// Index is the position of the reading in the input series.
	Index     int
	Timestamp time.Time
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("%v at index %d (%s)", ErrZeroInterval, e.Index, e.Timestamp.Format(time.RFC3339))
}

func (e *IntervalError) Unwrap() error { return ErrZeroInterval }
