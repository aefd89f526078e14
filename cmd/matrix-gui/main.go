package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/EmbeddedEvery/matrix-gui/internal/adapters/ble"
	"github.com/EmbeddedEvery/matrix-gui/internal/app"
	"github.com/EmbeddedEvery/matrix-gui/internal/cliconfig"
	"github.com/EmbeddedEvery/matrix-gui/internal/gui"
	pkglog "github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

const helpDescription = `
Serve the matrix control page to a local browser.

The page scans for nearby matrices, connects over BLE and drives effects
with live parameter sliders. All state flows over a WebSocket, so several
browser tabs stay in sync. The config file is watched and reloads apply
without a restart.
`

var exampleUsage = strings.TrimSpace(`
  matrix-gui
  matrix-gui --listen 127.0.0.1:9000 --name GARAGE-MATRIX
  matrix-gui --config $HOME/.matrixgui/config.toml --verbose
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "matrix-gui",
		Short:   "Serve the matrix control page to a local browser",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

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

			logger := pkglog.NewZerologAdapterWithLogger(log)
			transport := ble.New(logger)
			srv := gui.NewServer(transport, cfg, logger)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Reloads apply on top of the running config; flags set on the
			// command line keep precedence.
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher := cliconfig.NewWatcher(cfgFile, func(fc cliconfig.FileConfig) {
					srv.UpdateConfig(fc, changed)
				}, logger)
				go watcher.Run(ctx)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(ctx) }()

			log.Info().Str("addr", cfg.ListenAddr).Msg("open the page in a local browser")

			select {
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
			case err := <-errCh:
				if err != nil {
					return err
				}
				return nil
			}

			cancel()
			if err := srv.Stop(context.Background()); err != nil {
				log.Warn().Err(err).Msg("stop server")
			}
			if srv.Controller().State() == app.StateConnected {
				if err := srv.Controller().Disconnect(); err != nil {
					log.Warn().Err(err).Msg("disconnect device")
				}
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.matrixgui/config.toml)")
	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "address to serve the page on")
	root.Flags().StringVar(&cfg.DeviceName, "name", cfg.DeviceName, "default device name for connect")
	root.Flags().DurationVar(&cfg.ScanTimeout, "scan-timeout", cfg.ScanTimeout, "how long a scan runs")
	root.Flags().DurationVar(&cfg.AckWait, "wait", cfg.AckWait, "how long to wait for an ACK")
	root.Flags().BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("matrix-gui")
		os.Exit(1)
	}
}
