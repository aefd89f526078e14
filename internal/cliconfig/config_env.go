package cliconfig

import "os"

// Environment variable names recognized by the toolkit.
const (
	EnvDeviceName    = "MATRIXGUI_DEVICE_NAME"
	EnvDeviceAddress = "MATRIXGUI_DEVICE_ADDRESS"
	EnvScanTimeout   = "MATRIXGUI_SCAN_TIMEOUT"
	EnvAckWait       = "MATRIXGUI_ACK_WAIT"
	EnvListenAddr    = "MATRIXGUI_LISTEN_ADDR"
	EnvVerbose       = "MATRIXGUI_VERBOSE"
)

// ApplyEnvConfig applies MATRIXGUI_* environment variables to the Config.
// Env values override file config but are overridden by explicit flags
// (checked via the changed map). Malformed durations are ignored rather
// than fatal; env is a convenience layer.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("name", os.Getenv(EnvDeviceName), &cfg.DeviceName)
	s.setString("address", os.Getenv(EnvDeviceAddress), &cfg.DeviceAddress)
	s.setString("listen", os.Getenv(EnvListenAddr), &cfg.ListenAddr)

	_ = s.setDuration("scan-timeout", os.Getenv(EnvScanTimeout), &cfg.ScanTimeout)
	_ = s.setDuration("wait", os.Getenv(EnvAckWait), &cfg.AckWait)

	s.setBoolFromString("verbose", os.Getenv(EnvVerbose), &cfg.Verbose)
}
