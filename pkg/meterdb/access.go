package meterdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/NotCoffee418/household_power/pkg/types"
)

// InsertEnergySeries stores the readings of a feed, replacing readings at the
// same second.
func (m *MeterDB) InsertEnergySeries(feed string, series types.EnergySeries) error {
	return m.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(
			"INSERT OR REPLACE INTO energy_readings (feed, timestamp, value) VALUES (?, ?, ?)",
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, reading := range series {
			if _, err := stmt.Exec(feed, reading.Timestamp.Unix(), reading.KWh); err != nil {
				return fmt.Errorf("insert %s reading: %w", feed, err)
			}
		}
		m.logger.Debug().Str("feed", feed).Int("count", len(series)).Msg("stored energy readings")
		return nil
	})
}

// InsertMeterStanding stores every register of a telegram under its feed name.
func (m *MeterDB) InsertMeterStanding(standing *types.MeterStanding) error {
	ts := standing.Timestamp.Unix()
	return m.inTx(func(tx *sql.Tx) error {
		for feed, kwh := range standing.Registers() {
			_, err := tx.Exec(
				"INSERT OR REPLACE INTO energy_readings (feed, timestamp, value) VALUES (?, ?, ?)",
				feed, ts, kwh,
			)
			if err != nil {
				return err
			}
		}
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO energy_readings (feed, timestamp, value) VALUES (?, ?, ?)",
			types.FeedGas, ts, standing.GasM3,
		)
		return err
	})
}

// LoadEnergySeries returns the readings of a feed in chronological order.
func (m *MeterDB) LoadEnergySeries(feed string) (types.EnergySeries, error) {
	rows, err := m.db.Query(
		"SELECT feed, timestamp, value FROM energy_readings WHERE feed = ? ORDER BY timestamp",
		feed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series types.EnergySeries
	for rows.Next() {
		var r MeterDbEnergyReading
		if err := rows.Scan(&r.Feed, &r.Timestamp, &r.Value); err != nil {
			return nil, err
		}
		series = append(series, types.EnergyReading{
			Timestamp: time.Unix(r.Timestamp, 0).UTC(),
			KWh:       r.Value,
		})
	}
	return series, rows.Err()
}

// ListFeeds returns the names of all feeds with stored readings, sorted.
func (m *MeterDB) ListFeeds() ([]string, error) {
	rows, err := m.db.Query("SELECT DISTINCT feed FROM energy_readings ORDER BY feed")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feeds []string
	for rows.Next() {
		var feed string
		if err := rows.Scan(&feed); err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}

// InsertPowerSeries stores the defined points of a derived series. Holes are not
// stored.
func (m *MeterDB) InsertPowerSeries(feed string, series types.PowerSeries) error {
	return m.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(
			"INSERT OR REPLACE INTO power_readings (feed, timestamp, kw) VALUES (?, ?, ?)",
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range series.Defined() {
			if _, err := stmt.Exec(feed, p.Timestamp.Unix(), p.KW); err != nil {
				return fmt.Errorf("insert %s power: %w", feed, err)
			}
		}
		return nil
	})
}

// LoadPowerReadings returns the stored power of a feed in chronological order.
func (m *MeterDB) LoadPowerReadings(feed string) ([]MeterDbPowerReading, error) {
	rows, err := m.db.Query(
		"SELECT feed, timestamp, kw FROM power_readings WHERE feed = ? ORDER BY timestamp",
		feed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []MeterDbPowerReading
	for rows.Next() {
		var r MeterDbPowerReading
		if err := rows.Scan(&r.Feed, &r.Timestamp, &r.KW); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

func (m *MeterDB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
