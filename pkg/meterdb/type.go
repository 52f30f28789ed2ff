package meterdb

// Value is kWh for electricity feeds and m3 for the gas feed.
type MeterDbEnergyReading struct {
	Feed      string  `db:"feed"`
	Timestamp int64   `db:"timestamp"`
	Value     float64 `db:"value"`
}

type MeterDbPowerReading struct {
	Feed      string  `db:"feed"`
	Timestamp int64   `db:"timestamp"`
	KW        float64 `db:"kw"`
}
