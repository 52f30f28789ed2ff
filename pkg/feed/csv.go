// Package feed reads cumulative energy feeds from wide CSV files and writes
// derived power back out in the same shape.
//
// The layout follows the household data packages: one timestamp column, then one
// column of cumulative kWh per feed. An empty cell means the feed has no reading
// at that timestamp.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/NotCoffee418/household_power/pkg/types"
)

const DefaultTimestampColumn = "utc_timestamp"

type ReadOptions struct {
	TimestampColumn string
	// Go time layout, RFC 3339 when empty
	TimestampLayout string
	// Feeds to read, in this order. All non-timestamp columns when empty.
	Columns []string
	// Columns never treated as feeds, e.g. a local-time or interpolation column.
	Ignore []string
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.TimestampColumn == "" {
		o.TimestampColumn = DefaultTimestampColumn
	}
	if o.TimestampLayout == "" {
		o.TimestampLayout = time.RFC3339
	}
	return o
}

// ReadCSV parses every selected feed column into its own series. Rows keep file
// order; sorting is left to the caller.
func ReadCSV(r io.Reader, opts ReadOptions) ([]types.Feed, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingTimestampColumn
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	tsIdx := slices.Index(header, opts.TimestampColumn)
	if tsIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingTimestampColumn, opts.TimestampColumn)
	}

	columns, err := selectColumns(header, tsIdx, opts)
	if err != nil {
		return nil, err
	}

	feeds := make([]types.Feed, len(columns))
	for i, col := range columns {
		feeds[i].Name = header[col]
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		rawTs := strings.TrimSpace(record[tsIdx])
		ts, err := time.Parse(opts.TimestampLayout, rawTs)
		if err != nil {
			return nil, &TimestampError{Line: line, Value: rawTs, Err: err}
		}

		for i, col := range columns {
			cell := strings.TrimSpace(record[col])
			if cell == "" {
				continue
			}
			kwh, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &ConversionError{Feed: feeds[i].Name, Line: line, Value: cell, Err: err}
			}
			feeds[i].Energy = append(feeds[i].Energy, types.EnergyReading{Timestamp: ts, KWh: kwh})
		}
	}

	return feeds, nil
}

func selectColumns(header []string, tsIdx int, opts ReadOptions) ([]int, error) {
	if len(opts.Columns) > 0 {
		columns := make([]int, 0, len(opts.Columns))
		for _, name := range opts.Columns {
			idx := slices.Index(header, name)
			if idx < 0 || idx == tsIdx {
				return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
			}
			columns = append(columns, idx)
		}
		return columns, nil
	}

	var columns []int
	for i, name := range header {
		if i == tsIdx || slices.Contains(opts.Ignore, name) {
			continue
		}
		columns = append(columns, i)
	}
	return columns, nil
}

// WritePowerCSV writes the series side by side on the union of their timestamps,
// in chronological order. Each column is headed "<name> <series name>" and holes
// are left empty.
func WritePowerCSV(w io.Writer, names []string, series []types.PowerSeries) error {
	if len(names) != len(series) {
		return ErrLengthMismatch
	}

	type row struct {
		ts     time.Time
		values []string
	}
	rows := make(map[int64]*row)
	for col, s := range series {
		for _, p := range s.Points {
			key := p.Timestamp.UnixNano()
			r, ok := rows[key]
			if !ok {
				r = &row{ts: p.Timestamp, values: make([]string, len(series))}
				rows[key] = r
			}
			if p.Defined {
				r.values[col] = strconv.FormatFloat(p.KW, 'f', -1, 64)
			}
		}
	}

	keys := make([]int64, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(names)+1)
	header = append(header, DefaultTimestampColumn)
	for i, name := range names {
		header = append(header, name+" "+series[i].Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, k := range keys {
		r := rows[k]
		record := append([]string{r.ts.UTC().Format(time.RFC3339)}, r.values...)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
