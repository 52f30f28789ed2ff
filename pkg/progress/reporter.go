package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// BarLength is the number of characters between the brackets.
const BarLength = 50

const doneStatus = "Done...\r\n"

type flusher interface {
	Flush() error
}

// Reporter writes progress lines to an output.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out, or to os.Stdout when out is nil.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

var stdout = NewReporter(nil)

// Report writes the progress line for count of total feeds to standard output.
func Report(count, total int) error {
	return stdout.Report(count, total)
}

// Report writes the progress line and flushes the output if it buffers.
// Invalid arguments return an error and write nothing.
func (r *Reporter) Report(count, total int) error {
	line, err := Render(count, total)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(r.out, line); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	if f, ok := r.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush progress: %w", err)
		}
	}
	return nil
}

// Render formats the progress line without writing it.
func Render(count, total int) (string, error) {
	if total <= 0 {
		return "", ErrInvalidTotal
	}
	if count < 0 {
		return "", ErrNegativeCount
	}

	status := ""
	ratio := float64(count) / float64(total)
	if ratio >= 1 {
		ratio = 1
		status = doneStatus
	}

	filled := Filled(ratio)
	bar := strings.Repeat("#", filled) + strings.Repeat("-", BarLength-filled)

	return fmt.Sprintf("\rProgress: [%s] %d/%d feeds %s", bar, count, total, status), nil
}

// Filled returns how many of the BarLength characters are filled for a ratio in
// [0, 1]. Halves round to even.
func Filled(ratio float64) int {
	return int(math.RoundToEven(BarLength * ratio))
}
