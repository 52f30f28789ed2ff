package pathing

import (
	"os"
	"path/filepath"
)

const (
	defaultDataDir   = "/var/lib/household_power"
	defaultConfigDir = "/etc/household_power"
)

// Environment overrides, mostly useful outside of the Pi deployment.
const (
	DataDirEnv   = "HOUSEHOLD_DATA_DIR"
	ConfigDirEnv = "HOUSEHOLD_CONFIG_DIR"
)

func GetMeterDbPath() string {
	return filepath.Join(GetDataDir(), "household-meter.db")
}

func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "household.toml")
}

func GetDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	return defaultDataDir
}

func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return defaultConfigDir
}

// EnsureDir creates the parent directory of path if it does not exist yet.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
