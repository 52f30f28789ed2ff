// Package power turns cumulative energy readings into instantaneous power.
package power

import (
	"math"

	"github.com/NotCoffee418/household_power/pkg/esmutils"
	"github.com/NotCoffee418/household_power/pkg/types"
)

// ColumnName labels every derived power series.
const ColumnName = "Power [kW]"

// Derive converts a cumulative kWh series into a kW series.
//
// Readings equal to the last kept reading are skipped, so a run of unchanged
// standings collapses to its first occurrence. Each remaining reading is
// differenced against the previous kept one and divided by the elapsed hours.
//
// The result has one point per input reading, in input order. Points are defined
// only where a power value was computed; the first kept reading and every
// skipped reading are holes. A NaN energy value also yields holes.
//
// Two kept readings with the same timestamp return an *IntervalError wrapping
// ErrZeroInterval. Timestamps are not checked for ordering: an unsorted series
// produces negative intervals and the sign follows from the subtraction.
func Derive(series types.EnergySeries) (types.PowerSeries, error) {
	out := types.PowerSeries{
		Name:   ColumnName,
		Points: make([]types.PowerPoint, len(series)),
	}
	for i, reading := range series {
		out.Points[i].Timestamp = reading.Timestamp
	}

	var (
		lastKept types.EnergyReading
		hasKept  bool
	)
	for i, reading := range series {
		if hasKept && reading.KWh == lastKept.KWh {
			continue
		}

		if hasKept {
			elapsed := reading.Timestamp.Sub(lastKept.Timestamp)
			if elapsed == 0 {
				return types.PowerSeries{}, &IntervalError{Index: i, Timestamp: reading.Timestamp}
			}

			kw := (reading.KWh - lastKept.KWh) / esmutils.Hours(elapsed)
			if !math.IsNaN(kw) {
				out.Points[i].KW = kw
				out.Points[i].Defined = true
			}
		}

		lastKept = reading
		hasKept = true
	}

	return out, nil
}
