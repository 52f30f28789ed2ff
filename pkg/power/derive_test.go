package power

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/NotCoffee418/household_power/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC)

func series(values []float64, offsets ...time.Duration) types.EnergySeries {
	out := make(types.EnergySeries, len(values))
	for i, v := range values {
		out[i] = types.EnergyReading{Timestamp: t0.Add(offsets[i]), KWh: v}
	}
	return out
}

func TestDerive_IrregularWithDuplicate(t *testing.T) {
	in := series([]float64{0, 5, 5, 15}, 0, time.Hour, 2*time.Hour, 4*time.Hour)

	got, err := Derive(in)
	require.NoError(t, err)

	assert.Equal(t, ColumnName, got.Name)
	require.Len(t, got.Points, 4)
	for i, p := range got.Points {
		assert.Equal(t, in[i].Timestamp, p.Timestamp)
	}

	assert.False(t, got.Points[0].Defined)
	assert.True(t, got.Points[1].Defined)
	assert.InDelta(t, 5.0, got.Points[1].KW, 1e-12)
	assert.False(t, got.Points[2].Defined, "unchanged standing must be a hole")
	assert.True(t, got.Points[3].Defined)
	assert.InDelta(t, 10.0/3, got.Points[3].KW, 1e-12)

	defined := got.Defined()
	require.Len(t, defined, 2)
	assert.Equal(t, t0.Add(time.Hour), defined[0].Timestamp)
	assert.Equal(t, t0.Add(4*time.Hour), defined[1].Timestamp)
}

func TestDerive_EmptyAndSingle(t *testing.T) {
	got, err := Derive(nil)
	require.NoError(t, err)
	assert.Empty(t, got.Points)
	assert.Equal(t, 0, got.Len())

	got, err = Derive(series([]float64{42}, 0))
	require.NoError(t, err)
	require.Len(t, got.Points, 1)
	assert.Equal(t, 0, got.Len())
}

func TestDerive_AllEqual(t *testing.T) {
	got, err := Derive(series([]float64{7, 7, 7}, 0, time.Hour, 2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got.Points, 3)
	assert.Equal(t, 0, got.Len())
	assert.Empty(t, got.Defined())
}

func TestDerive_SubHourInterval(t *testing.T) {
	// 0.25 kWh in 15 minutes is 1 kW
	got, err := Derive(series([]float64{100, 100.25}, 0, 15*time.Minute))
	require.NoError(t, err)
	require.True(t, got.Points[1].Defined)
	assert.InDelta(t, 1.0, got.Points[1].KW, 1e-9)
}

func TestDerive_RunCollapsesToFirstOccurrence(t *testing.T) {
	// The run of 2s at 1h, 2h, 3h keeps only 1h, so the delta to 6 spans 1h..5h.
	in := series([]float64{0, 2, 2, 2, 6}, 0, time.Hour, 2*time.Hour, 3*time.Hour, 5*time.Hour)

	got, err := Derive(in)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.InDelta(t, 2.0, got.Points[1].KW, 1e-12)
	assert.InDelta(t, 1.0, got.Points[4].KW, 1e-12)
}

func TestDerive_DuplicateTimestampFails(t *testing.T) {
	in := series([]float64{1, 2, 3}, 0, time.Hour, time.Hour)

	_, err := Derive(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroInterval))

	var ie *IntervalError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 2, ie.Index)
	assert.Equal(t, t0.Add(time.Hour), ie.Timestamp)
}

func TestDerive_DuplicateTimestampWithEqualValueIsSkipped(t *testing.T) {
	// The repeated reading is filtered before any interval is computed.
	in := series([]float64{1, 2, 2}, 0, time.Hour, time.Hour)

	got, err := Derive(in)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestDerive_UnsortedProducesNegativeInterval(t *testing.T) {
	in := series([]float64{0, 4}, 2*time.Hour, 0)

	got, err := Derive(in)
	require.NoError(t, err)
	require.True(t, got.Points[1].Defined)
	assert.InDelta(t, -2.0, got.Points[1].KW, 1e-12)
}

func TestDerive_NaNReadingLeavesHoles(t *testing.T) {
	in := series([]float64{0, math.NaN(), 3}, 0, time.Hour, 2*time.Hour)

	got, err := Derive(in)
	require.NoError(t, err)
	assert.False(t, got.Points[1].Defined)
	assert.False(t, got.Points[2].Defined)
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	in := series([]float64{0, 5, 5, 15}, 0, time.Hour, 2*time.Hour, 4*time.Hour)
	snapshot := append(types.EnergySeries(nil), in...)

	_, err := Derive(in)
	require.NoError(t, err)
	assert.Equal(t, snapshot, in)
}
