package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv(EnvDeviceName, "ENV-MATRIX")
	t.Setenv(EnvScanTimeout, "20s")
	t.Setenv(EnvVerbose, "1")

	cfg := DefaultConfig()
	ApplyEnvConfig(&cfg, map[string]bool{})

	if cfg.DeviceName != "ENV-MATRIX" {
		t.Errorf("DeviceName = %q, want ENV-MATRIX", cfg.DeviceName)
	}
	if cfg.ScanTimeout != 20*time.Second {
		t.Errorf("ScanTimeout = %v, want 20s", cfg.ScanTimeout)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestApplyEnvConfig_FlagsWin(t *testing.T) {
	t.Setenv(EnvDeviceName, "ENV-MATRIX")
	t.Setenv(EnvAckWait, "9s")

	cfg := DefaultConfig()
	cfg.DeviceName = "FLAG-MATRIX"
	cfg.AckWait = time.Second
	ApplyEnvConfig(&cfg, map[string]bool{"name": true, "wait": true})

	if cfg.DeviceName != "FLAG-MATRIX" {
		t.Errorf("DeviceName = %q, want FLAG-MATRIX (flag wins)", cfg.DeviceName)
	}
	if cfg.AckWait != time.Second {
		t.Errorf("AckWait = %v, want 1s (flag wins)", cfg.AckWait)
	}
}

func TestApplyEnvConfig_MalformedDurationIgnored(t *testing.T) {
	t.Setenv(EnvScanTimeout, "whenever")

	cfg := DefaultConfig()
	ApplyEnvConfig(&cfg, map[string]bool{})

	if cfg.ScanTimeout != 10*time.Second {
		t.Errorf("ScanTimeout = %v, want default 10s", cfg.ScanTimeout)
	}
}
