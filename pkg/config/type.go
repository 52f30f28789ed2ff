package config

type HouseholdConfig struct {
	// Wide CSV of cumulative kWh readings, one column per feed
	FeedsCSV        string `toml:"feeds_csv"`
	TimestampColumn string `toml:"timestamp_column"`
	// Go time layout of the timestamp column
	TimestampLayout string `toml:"timestamp_layout"`
	OutputCSV       string `toml:"output_csv"`

	MeterDbPath string `toml:"meter_db_path"`
	// Also write derived power to the meter database
	StorePower bool `toml:"store_power"`

	// Live collection, `ws` or `serial`
	CollectSource      string `toml:"collect_source"`
	InterpreterAPIHost string `toml:"interpreter_api_host"`
	SerialDevice       string `toml:"serial_device"`
	Baudrate           uint   `toml:"baudrate"`
}
