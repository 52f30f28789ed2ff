package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/NotCoffee418/household_power/pkg/pathing"
)

var ActiveHouseholdConfig *HouseholdConfig

const (
	SourceWebsocket = "ws"
	SourceSerial    = "serial"
)

func DefaultHouseholdConfig() *HouseholdConfig {
	return &HouseholdConfig{
		FeedsCSV:           "household_data.csv",
		TimestampColumn:    "utc_timestamp",
		TimestampLayout:    time.RFC3339,
		OutputCSV:          "household_power.csv",
		MeterDbPath:        pathing.GetMeterDbPath(),
		StorePower:         false,
		CollectSource:      SourceWebsocket,
		InterpreterAPIHost: "localhost:9039",
		SerialDevice:       "/dev/ttyUSB0",
		Baudrate:           115200,
	}
}

// LoadHouseholdConfig loads the config from the config dir into ActiveHouseholdConfig.
func LoadHouseholdConfig() error {
	cfg, err := LoadHouseholdConfigFrom(pathing.GetConfigPath())
	if err != nil {
		return err
	}
	ActiveHouseholdConfig = cfg
	return nil
}

// LoadHouseholdConfigFrom decodes the file at configPath, writing the defaults
// there first if it does not exist. Keys missing from the file keep their defaults.
func LoadHouseholdConfigFrom(configPath string) (*HouseholdConfig, error) {
	cfg := DefaultHouseholdConfig()

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteHouseholdConfig(configPath, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Load existing config
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

func WriteHouseholdConfig(configPath string, cfg *HouseholdConfig) error {
	if err := pathing.EnsureDir(configPath); err != nil {
		return err
	}
	cfgFile, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer cfgFile.Close()
	return toml.NewEncoder(cfgFile).Encode(cfg)
}

func (c *HouseholdConfig) Validate() error {
	switch c.CollectSource {
	case SourceWebsocket, SourceSerial:
	default:
		return fmt.Errorf("collect_source must be %q or %q, got %q", SourceWebsocket, SourceSerial, c.CollectSource)
	}
	if c.TimestampColumn == "" {
		return fmt.Errorf("timestamp_column must not be empty")
	}
	if c.TimestampLayout == "" {
		return fmt.Errorf("timestamp_layout must not be empty")
	}
	return nil
}
