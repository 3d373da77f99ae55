// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/frigostat/internal/logger"
	"github.com/Thermoquad/frigostat/pkg/uart"
	"github.com/Thermoquad/frigostat/pkg/walkin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	demoSteps  int
	demoDelay  time.Duration
	demoScript string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the controller simulation on in-memory channels",
	Long: `Run the walk-in controller for a fixed number of steps on two in-memory
line queues, then print everything the firmware transmitted on each channel.

Without --script, a stock scenario is injected before the first step:
  monitor: GET CONFIG
  io:      SET_SENSOR air_temp_c=7.5

A scenario file replaces the stock one with a YAML list of injections:

  - step: 1
    channel: monitor
    line: GET CONFIG
  - step: 2
    channel: io
    line: SET_INPUT door_open=1

Each line enters its channel's receive queue before the given step runs
(steps are numbered from 1; omitting step means 1).`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntVar(&demoSteps, "steps", 3, "Number of controller steps to run")
	demoCmd.Flags().DurationVar(&demoDelay, "delay", 100*time.Millisecond, "Delay between steps")
	demoCmd.Flags().StringVar(&demoScript, "script", "", "YAML scenario file (replaces the stock scenario)")
}

// injection is one scripted line fed into a channel before a given step
type injection struct {
	Step    int    `yaml:"step"`
	Channel string `yaml:"channel"`
	Line    string `yaml:"line"`
}

func stockScenario() []injection {
	return []injection{
		{Step: 1, Channel: "monitor", Line: "GET CONFIG"},
		{Step: 1, Channel: "io", Line: "SET_SENSOR air_temp_c=7.5"},
	}
}

func loadScenario(path string) ([]injection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %v", err)
	}

	var scenario []injection
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %v", path, err)
	}

	for i := range scenario {
		inj := &scenario[i]
		if inj.Step == 0 {
			inj.Step = 1
		}
		if inj.Step < 1 {
			return nil, fmt.Errorf("scenario entry %d: step %d out of range", i+1, inj.Step)
		}
		if inj.Channel != "monitor" && inj.Channel != "io" {
			return nil, fmt.Errorf("scenario entry %d: unknown channel %q", i+1, inj.Channel)
		}
		if inj.Line == "" {
			return nil, fmt.Errorf("scenario entry %d: empty line", i+1)
		}
	}
	return scenario, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	log := logger.Get(logger.InfoLevel)
	defer log.Sync()

	scenario := stockScenario()
	if demoScript != "" {
		var err error
		scenario, err = loadScenario(demoScript)
		if err != nil {
			return err
		}
		log.Info("loaded scenario",
			zap.String("file", demoScript),
			zap.Int("injections", len(scenario)))
	}

	for _, inj := range scenario {
		if inj.Step > demoSteps {
			log.Warn("injection beyond final step, line will never run",
				zap.Int("step", inj.Step),
				zap.Int("steps", demoSteps),
				zap.String("line", inj.Line))
		}
	}

	monitorQ := uart.NewQueue()
	ioQ := uart.NewQueue()
	ctrl := walkin.NewController(monitorQ, ioQ)

	fmt.Printf("Frigostat - Controller Demo\n")
	fmt.Printf("Steps: %d, delay: %v\n\n", demoSteps, demoDelay)

	for step := 1; step <= demoSteps; step++ {
		for _, inj := range scenario {
			if inj.Step != step {
				continue
			}
			switch inj.Channel {
			case "monitor":
				monitorQ.InjectRX(inj.Line)
			case "io":
				ioQ.InjectRX(inj.Line)
			}
			log.Debug("injected line",
				zap.Int("step", step),
				zap.String("channel", inj.Channel),
				zap.String("line", inj.Line))
		}

		ctrl.Step()
		time.Sleep(demoDelay)
	}

	fmt.Printf("--- MONITOR UART TX ---\n")
	for _, line := range monitorQ.DrainTX() {
		fmt.Println(line)
	}

	fmt.Printf("\n--- IO UART TX ---\n")
	for _, line := range ioQ.DrainTX() {
		fmt.Println(line)
	}

	return nil
}
