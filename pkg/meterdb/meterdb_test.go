package meterdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/NotCoffee418/household_power/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *MeterDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "meter.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEnergySeriesRoundTrip(t *testing.T) {
	db := openTestDB(t)

	// stored out of order, loaded sorted
	in := types.EnergySeries{
		{Timestamp: t0.Add(2 * time.Hour), KWh: 5},
		{Timestamp: t0, KWh: 0},
		{Timestamp: t0.Add(time.Hour), KWh: 5},
	}
	require.NoError(t, db.InsertEnergySeries("freezer", in))
	require.NoError(t, db.InsertEnergySeries("pv", in[:1]))

	got, err := db.LoadEnergySeries("freezer")
	require.NoError(t, err)
	assert.Equal(t, types.EnergySeries{in[1], in[2], in[0]}, got)

	feeds, err := db.ListFeeds()
	require.NoError(t, err)
	assert.Equal(t, []string{"freezer", "pv"}, feeds)

	missing, err := db.LoadEnergySeries("dishwasher")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestInsertEnergySeriesReplacesSameSecond(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertEnergySeries("freezer", types.EnergySeries{{Timestamp: t0, KWh: 1}}))
	require.NoError(t, db.InsertEnergySeries("freezer", types.EnergySeries{{Timestamp: t0, KWh: 2}}))

	got, err := db.LoadEnergySeries("freezer")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].KWh)
}

func TestInsertMeterStanding(t *testing.T) {
	db := openTestDB(t)

	standing := &types.MeterStanding{
		Timestamp:           t0,
		ConsumptionDayKWH:   1234.5,
		ConsumptionNightKWH: 678.9,
		ProductionDayKWH:    12,
		ProductionNightKWH:  0,
		GasM3:               321.0,
	}
	require.NoError(t, db.InsertMeterStanding(standing))

	feeds, err := db.ListFeeds()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		types.FeedConsumptionDay, types.FeedConsumptionNight,
		types.FeedProductionDay, types.FeedProductionNight, types.FeedGas,
	}, feeds)

	day, err := db.LoadEnergySeries(types.FeedConsumptionDay)
	require.NoError(t, err)
	assert.Equal(t, types.EnergySeries{{Timestamp: t0, KWh: 1234.5}}, day)

	gas, err := db.LoadEnergySeries(types.FeedGas)
	require.NoError(t, err)
	assert.Equal(t, 321.0, gas[0].KWh)
}

func TestInsertPowerSeriesSkipsHoles(t *testing.T) {
	db := openTestDB(t)

	series := types.PowerSeries{Name: "Power [kW]", Points: []types.PowerPoint{
		{Timestamp: t0},
		{Timestamp: t0.Add(time.Hour), KW: 5, Defined: true},
		{Timestamp: t0.Add(2 * time.Hour)},
		{Timestamp: t0.Add(4 * time.Hour), KW: 10.0 / 3, Defined: true},
	}}
	require.NoError(t, db.InsertPowerSeries("freezer", series))

	got, err := db.LoadPowerReadings("freezer")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, t0.Add(time.Hour).Unix(), got[0].Timestamp)
	assert.InDelta(t, 5.0, got[0].KW, 1e-12)
	assert.InDelta(t, 10.0/3, got[1].KW, 1e-12)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meter.db")

	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.InsertEnergySeries("freezer", types.EnergySeries{{Timestamp: t0, KWh: 1}}))
	require.NoError(t, db.Close())

	db, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	got, err := db.LoadEnergySeries("freezer")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
