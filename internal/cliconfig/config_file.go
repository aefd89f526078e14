package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	DeviceName    string `toml:"device_name"`
	DeviceAddress string `toml:"device_address"`
	ScanTimeout   string `toml:"scan_timeout"`
	AckWait       string `toml:"ack_wait"`
	ListenAddr    string `toml:"listen_addr"`
	Verbose       *bool  `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.matrixgui/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".matrixgui", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", fc.DeviceName, &cfg.DeviceName)
	s.setString("address", fc.DeviceAddress, &cfg.DeviceAddress)
	s.setString("listen", fc.ListenAddr, &cfg.ListenAddr)

	if err := s.setDuration("scan-timeout", fc.ScanTimeout, &cfg.ScanTimeout); err != nil {
		return err
	}
	if err := s.setDuration("wait", fc.AckWait, &cfg.AckWait); err != nil {
		return err
	}

	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
