// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads the run daemon's settings.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Settings configures the frigostat daemon.
type Settings struct {
	MonitorPort string
	MonitorBaud int
	IOPort      string
	IOBaud      int
	TickMS      int
	JournalPath string
	LogLevel    string
}

// Defaults returns the settings used when no config file is present. Ports
// default to empty: the daemon refuses to start without them, from file or
// flags.
func Defaults() Settings {
	return Settings{
		MonitorBaud: 115200,
		IOBaud:      115200,
		TickMS:      100,
		JournalPath: "frigostat.db",
		LogLevel:    "info",
	}
}

// Load reads settings from a YAML config file over the defaults. With an
// empty path it searches configs/frigostat.{yml,yaml}; a missing file is not
// an error there, since ports are commonly passed by flags alone. An
// explicit path that cannot be read is an error.
func Load(path string) (Settings, error) {
	v := viper.New()
	s := Defaults()

	v.SetDefault("monitor.port", s.MonitorPort)
	v.SetDefault("monitor.baud", s.MonitorBaud)
	v.SetDefault("io.port", s.IOPort)
	v.SetDefault("io.baud", s.IOBaud)
	v.SetDefault("tick_ms", s.TickMS)
	v.SetDefault("journal.path", s.JournalPath)
	v.SetDefault("log.level", s.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("frigostat")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	s.MonitorPort = v.GetString("monitor.port")
	s.MonitorBaud = v.GetInt("monitor.baud")
	s.IOPort = v.GetString("io.port")
	s.IOBaud = v.GetInt("io.baud")
	s.TickMS = v.GetInt("tick_ms")
	s.JournalPath = v.GetString("journal.path")
	s.LogLevel = v.GetString("log.level")
	return s, nil
}
