package progress

import "errors"

var (
	// ErrInvalidTotal indicates a total of zero or less, for which no ratio exists.
	ErrInvalidTotal = errors.New("progress: total must be greater than zero")

	// ErrNegativeCount indicates a count below zero.
	ErrNegativeCount = errors.New("progress: count must not be negative")
)
