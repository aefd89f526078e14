package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/EmbeddedEvery/matrix-gui/internal/adapters/ble"
	"github.com/EmbeddedEvery/matrix-gui/internal/app"
	"github.com/EmbeddedEvery/matrix-gui/internal/cliconfig"
	"github.com/EmbeddedEvery/matrix-gui/internal/ports"
	"github.com/EmbeddedEvery/matrix-gui/internal/protocol"
	pkglog "github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

const helpDescription = `
Send one raw protocol frame to a WS2812 matrix over BLE and report the ACK.

The tool connects once, writes exactly one frame to the command
characteristic (plus one timesync frame with --timesync) and disconnects.
Event, subevent and payload are given as hex, so any command the firmware
understands can be exercised without a release build of the GUI.

Troubleshooting BLE access:
  - Linux: the bluetooth service must be running ("systemctl status
    bluetooth") and your user needs bluetooth group membership, or grant
    the binary raw HCI access with
    "sudo setcap cap_net_raw,cap_net_admin+eip $(which matrixctl)".
  - macOS: grant the terminal Bluetooth permission under System Settings >
    Privacy & Security > Bluetooth.
  - A powered-off adapter surfaces as an "enable bluetooth adapter" error.
`

var exampleUsage = strings.TrimSpace(`
  matrixctl --name HOSHI-MATRIX --event 0x10 --subevent 0x02 --payload 0805
  matrixctl --address aa:bb:cc:dd:ee:ff --subevent 0xff --payload ""
  matrixctl --name HOSHI-MATRIX --timesync
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var (
		cfgPath  string
		name     string
		address  string
		eventStr string
		subStr   string
		payStr   string
		sequence int
		timesync bool
	)

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "matrixctl",
		Short:   "Send one raw protocol frame to a WS2812 matrix over BLE",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if changed["name"] && changed["address"] {
				return fmt.Errorf("--name and --address are mutually exclusive")
			}
			if !changed["name"] && !changed["address"] {
				return fmt.Errorf("exactly one of --name or --address is required")
			}

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			cliconfig.ApplyEnvConfig(&cfg, changed)
			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Verbose {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}

			// Every argument is validated before the radio is touched.
			event, err := protocol.ParseByte(eventStr)
			if err != nil {
				return fmt.Errorf("--event: %w", err)
			}
			subevent, err := protocol.ParseByte(subStr)
			if err != nil {
				return fmt.Errorf("--subevent: %w", err)
			}
			payload, err := protocol.DecodePayload(payStr)
			if err != nil {
				return fmt.Errorf("--payload: %w", err)
			}
			if sequence < 0 || sequence > 0xFF {
				return fmt.Errorf("--sequence must be 0-255, got %d", sequence)
			}

			target := ports.Target{}
			if changed["address"] {
				target.Address = address
			} else {
				target.Name = name
			}

			logger := pkglog.NewZerologAdapterWithLogger(log)
			transport := ble.New(logger)
			ctrl := app.New(transport, logger, app.WithAckWait(cfg.AckWait))

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ScanTimeout)
			defer cancel()

			log.Info().Str("target", target.String()).Msg("connecting")
			if err := ctrl.Connect(ctx, target); err != nil {
				return err
			}
			defer func() {
				if err := ctrl.Disconnect(); err != nil {
					log.Warn().Err(err).Msg("disconnect")
				}
			}()

			frame := protocol.Frame{
				Event:    event,
				SubEvent: subevent,
				Sequence: byte(sequence),
				Payload:  payload,
			}
			ack, err := ctrl.SendFrame(cmd.Context(), frame)
			if err != nil {
				return fmt.Errorf("send frame: %w", err)
			}
			reportAck(log, "frame", ack)

			if timesync {
				ack, err := ctrl.SyncTime(cmd.Context())
				if err != nil {
					return fmt.Errorf("send timesync: %w", err)
				}
				reportAck(log, "timesync", ack)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.matrixgui/config.toml)")
	root.Flags().StringVar(&name, "name", cfg.DeviceName, "advertised device name to connect to")
	root.Flags().StringVar(&address, "address", "", "device address to connect to")
	root.Flags().StringVar(&eventStr, "event", "0x10", "event byte (hex)")
	root.Flags().StringVar(&subStr, "subevent", "0x01", "subevent byte (hex)")
	root.Flags().StringVar(&payStr, "payload", "01", "payload as hex bytes, empty for none")
	root.Flags().IntVar(&sequence, "sequence", 1, "sequence byte for the frame")
	root.Flags().DurationVar(&cfg.AckWait, "wait", cfg.AckWait, "how long to wait for an ACK")
	root.Flags().DurationVar(&cfg.ScanTimeout, "scan-timeout", cfg.ScanTimeout, "how long to scan for the device")
	root.Flags().BoolVar(&timesync, "timesync", false, "also send a timesync frame with the current host time")
	root.Flags().BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("matrixctl")
		os.Exit(1)
	}
}

// reportAck logs the outcome of one command send. A nil ack means the wait
// window elapsed without a notification.
func reportAck(log zerolog.Logger, kind string, ack *protocol.Ack) {
	if ack == nil {
		log.Warn().Str("frame", kind).Msg("no ack received")
		return
	}
	ev := log.Info()
	if !ack.OK() {
		ev = log.Error()
	}
	ev = ev.Str("frame", kind).Uint8("seq", ack.Sequence)
	if status, ok := ack.Status(); ok {
		ev = ev.Str("status", fmt.Sprintf("0x%02x", status))
	}
	if refEvent, ok := ack.RefEvent(); ok {
		ev = ev.Str("ref_event", fmt.Sprintf("0x%02x", refEvent))
	}
	if refSub, ok := ack.RefSubEvent(); ok {
		ev = ev.Str("ref_subevent", fmt.Sprintf("0x%02x", refSub))
	}
	ev.Msg("ack")
}
