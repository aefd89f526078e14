// Package cliconfig loads toolkit configuration with flag > env > file
// precedence. Flags that were explicitly set on the command line always
// win; environment variables override the config file.
package cliconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/EmbeddedEvery/matrix-gui/internal/protocol"
)

// DefaultListenAddr is where the GUI server binds unless overridden.
const DefaultListenAddr = "127.0.0.1:8501"

// Config holds shared CLI configuration for matrixctl and matrix-gui.
type Config struct {
	DeviceName    string
	DeviceAddress string

	ScanTimeout time.Duration
	AckWait     time.Duration

	ListenAddr string
	Verbose    bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		DeviceName:  protocol.DefaultDeviceName,
		ScanTimeout: 10 * time.Second,
		AckWait:     2 * time.Second,
		ListenAddr:  DefaultListenAddr,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ScanTimeout <= 0 {
		return fmt.Errorf("scan timeout must be positive")
	}
	if c.AckWait <= 0 {
		return fmt.Errorf("ack wait must be positive")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

// Logger returns a console logger for command entrypoints.
func Logger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
