// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thermoquad/frigostat/internal/config"
	"github.com/Thermoquad/frigostat/internal/journal"
	"github.com/Thermoquad/frigostat/internal/logger"
	"github.com/Thermoquad/frigostat/pkg/uart"
	"github.com/Thermoquad/frigostat/pkg/walkin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runConfigPath  string
	runMonitorPort string
	runMonitorBaud int
	runIOPort      string
	runIOBaud      int
	runTickMS      int
	runJournalPath string
	runLogLevel    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller firmware on real serial channels",
	Long: `Run the walk-in controller as a daemon on two serial channels.

Settings come from configs/frigostat.yml (or --config); every setting has a
matching flag that overrides the file value. Both channel ports must be
configured.

Startup, shutdown, compressor, and panic alarm transitions are appended to
the sqlite event journal. The daemon steps the controller at the configured
tick interval until SIGINT or SIGTERM.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Configuration file (default configs/frigostat.yml)")
	runCmd.Flags().StringVar(&runMonitorPort, "monitor-port", "", "Monitor channel serial port")
	runCmd.Flags().IntVar(&runMonitorBaud, "monitor-baud", 115200, "Monitor channel baud rate")
	runCmd.Flags().StringVar(&runIOPort, "io-port", "", "IO channel serial port")
	runCmd.Flags().IntVar(&runIOBaud, "io-baud", 115200, "IO channel baud rate")
	runCmd.Flags().IntVar(&runTickMS, "tick-ms", 100, "Controller step interval in milliseconds")
	runCmd.Flags().StringVar(&runJournalPath, "journal", "", "Event journal sqlite path")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// overlayFlags applies explicitly set run flags on top of the file settings
func overlayFlags(cmd *cobra.Command, cfg config.Settings) config.Settings {
	if cmd.Flags().Changed("monitor-port") {
		cfg.MonitorPort = runMonitorPort
	}
	if cmd.Flags().Changed("monitor-baud") {
		cfg.MonitorBaud = runMonitorBaud
	}
	if cmd.Flags().Changed("io-port") {
		cfg.IOPort = runIOPort
	}
	if cmd.Flags().Changed("io-baud") {
		cfg.IOBaud = runIOBaud
	}
	if cmd.Flags().Changed("tick-ms") {
		cfg.TickMS = runTickMS
	}
	if cmd.Flags().Changed("journal") {
		cfg.JournalPath = runJournalPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}
	return cfg
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}
	cfg = overlayFlags(cmd, cfg)

	log := logger.Get(cfg.LogLevel)
	defer log.Sync()

	if cfg.MonitorPort == "" || cfg.IOPort == "" {
		return fmt.Errorf("both channel ports must be configured (monitor.port, io.port)")
	}
	if cfg.TickMS <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", cfg.TickMS)
	}

	jnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal %s: %v", cfg.JournalPath, err)
	}
	defer jnl.Close()

	monitorDev, err := uart.Open(cfg.MonitorPort, cfg.MonitorBaud, log)
	if err != nil {
		return err
	}
	defer monitorDev.Close()

	ioDev, err := uart.Open(cfg.IOPort, cfg.IOBaud, log)
	if err != nil {
		return err
	}
	defer ioDev.Close()

	ctrl := walkin.NewController(monitorDev, ioDev)

	ctx := context.Background()
	appendEvent := func(eventType, detail string) {
		if err := jnl.Append(ctx, eventType, detail); err != nil {
			log.Warn("journal append failed", zap.String("type", eventType), zap.Error(err))
		}
	}

	appendEvent(journal.TypeStartup,
		fmt.Sprintf("monitor=%s io=%s tick=%dms", cfg.MonitorPort, cfg.IOPort, cfg.TickMS))
	log.Info("controller running",
		zap.String("monitor", cfg.MonitorPort),
		zap.String("io", cfg.IOPort),
		zap.Int("tick_ms", cfg.TickMS),
		zap.String("journal", cfg.JournalPath))

	ticker := time.NewTicker(time.Duration(cfg.TickMS) * time.Millisecond)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	prev := ctrl.IO()
	for {
		select {
		case <-ticker.C:
			ctrl.Step()
			cur := ctrl.IO()

			if cur.CompressorOn != prev.CompressorOn {
				detail := "compressor off"
				if cur.CompressorOn {
					detail = "compressor on"
				}
				appendEvent(journal.TypeCompressor, detail)
				log.Info(detail, zap.Float64("air_temp_c", cur.AirTempC))
			}

			if cur.PanicAlarmOn != prev.PanicAlarmOn {
				detail := "panic alarm off"
				if cur.PanicAlarmOn {
					detail = "panic alarm on"
				}
				appendEvent(journal.TypePanic, detail)
				log.Warn(detail)
			}

			prev = cur

		case sig := <-quit:
			log.Info("shutting down", zap.String("signal", sig.String()))
			appendEvent(journal.TypeShutdown, sig.String())
			return nil
		}
	}
}
