// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package walkin simulates the control firmware of a walk-in refrigeration
// unit.
//
// A Controller owns the thermostat configuration, the box dimensions, and
// the live IO state. On each Step it reads at most one line from each of
// its two channels (monitor and IO), dispatches commands arriving in either
// plain text or SCK framed form, runs the thermostat and safety logic, and
// republishes the status line on the monitor channel when it changes.
package walkin

import (
	"errors"
	"strings"
	"time"

	"github.com/Thermoquad/frigostat/pkg/sck"
	"github.com/Thermoquad/frigostat/pkg/uart"
)

// Controller is the firmware state machine. It is step-driven and single
// threaded: one driver calls Step repeatedly and nothing inside blocks.
type Controller struct {
	monitor uart.Transport
	io      uart.Transport

	cfg   ControlConfig
	dims  Dimensions
	state IOState

	lastCompressorOff time.Time
	lastStatus        string

	now func() time.Time
}

// NewController builds a controller with factory configuration on the given
// monitor and IO channels. The channels belong to the caller; the controller
// only reads and writes lines on them.
func NewController(monitor, io uart.Transport) *Controller {
	c := &Controller{
		monitor: monitor,
		io:      io,
		cfg:     DefaultConfig(),
		dims:    DefaultDimensions(),
		state:   DefaultIOState(),
		now:     time.Now,
	}
	c.lastCompressorOff = c.now()
	return c
}

// Step runs one firmware tick: poll each channel for at most one line,
// dispatch it, run the thermostat and safety logic, then publish the status
// line if it changed.
func (c *Controller) Step() {
	c.processChannel(c.monitor, c.dispatchMonitor)
	c.processChannel(c.io, c.dispatchIO)
	c.runControlLogic()
	c.publishStatus()
}

// Config returns a copy of the current configuration.
func (c *Controller) Config() ControlConfig { return c.cfg }

// IO returns a copy of the live IO state.
func (c *Controller) IO() IOState { return c.state }

// Dimensions returns the box dimensions.
func (c *Controller) Dimensions() Dimensions { return c.dims }

func (c *Controller) processChannel(ch uart.Transport, dispatch func(request) response) {
	line, ok := ch.ReadLine()
	if !ok || line == "" {
		return
	}
	req, ok := classify(line)
	if !ok {
		return
	}
	ch.WriteLine(render(req, dispatch(req)))
}

// ============================================================
// Monitor channel dispatch
// ============================================================

func (c *Controller) dispatchMonitor(req request) response {
	if req.framed() {
		return c.monitorFrameCommand(req.frame)
	}
	return c.monitorTextCommand(req.text)
}

func (c *Controller) monitorTextCommand(line string) response {
	if rest, isSet := strings.CutPrefix(line, "SET "); isSet {
		if key, value, ok := strings.Cut(rest, "="); ok {
			return c.applyConfig(key, value)
		}
	}
	switch line {
	case "GET CONFIG":
		return c.configReply()
	case "GET STATUS":
		return c.statusReply()
	}
	return unknownCommand(line)
}

func (c *Controller) monitorFrameCommand(f *sck.Frame) response {
	switch f.Command() {
	case sck.CmdMonitorSetConfig:
		if key, value, ok := strings.Cut(f.PayloadText(), "="); ok {
			return c.applyConfig(key, value)
		}
	case sck.CmdMonitorGetConfig:
		return c.configReply()
	case sck.CmdMonitorGetStatus:
		return c.statusReply()
	}
	return unknownCommand(frameDetail(f))
}

// ============================================================
// IO channel dispatch
// ============================================================

func (c *Controller) dispatchIO(req request) response {
	if req.framed() {
		return c.ioFrameCommand(req.frame)
	}
	return c.ioTextCommand(req.text)
}

func (c *Controller) ioTextCommand(line string) response {
	if rest, isSet := strings.CutPrefix(line, "SET_SENSOR "); isSet {
		if key, value, ok := strings.Cut(rest, "="); ok {
			return c.applySensor(key, value)
		}
	}
	if rest, isSet := strings.CutPrefix(line, "SET_INPUT "); isSet {
		if key, value, ok := strings.Cut(rest, "="); ok {
			return c.applyInput(key, value)
		}
	}
	if line == "GET IO" {
		return c.ioReply()
	}
	return unknownCommand(line)
}

func (c *Controller) ioFrameCommand(f *sck.Frame) response {
	switch f.Command() {
	case sck.CmdIOSetSensor:
		if key, value, ok := strings.Cut(f.PayloadText(), "="); ok {
			return c.applySensor(key, value)
		}
	case sck.CmdIOSetInput:
		if key, value, ok := strings.Cut(f.PayloadText(), "="); ok {
			return c.applyInput(key, value)
		}
	case sck.CmdIOGetIO:
		return c.ioReply()
	}
	return unknownCommand(frameDetail(f))
}

// ============================================================
// Mutators and replies
// ============================================================

func (c *Controller) applyConfig(key, value string) response {
	stored, err := c.cfg.Set(key, value)
	return ackOrErr("unknown_config", key, stored, err)
}

func (c *Controller) applySensor(key, value string) response {
	stored, err := c.state.SetSensor(key, value)
	return ackOrErr("unknown_sensor", key, stored, err)
}

func (c *Controller) applyInput(key, value string) response {
	stored, err := c.state.SetInput(key, value)
	return ackOrErr("unknown_input", key, stored, err)
}

// ackOrErr renders a mutator outcome. vocab names the channel's unknown-key
// vocabulary: unknown_config, unknown_sensor, or unknown_input.
func ackOrErr(vocab, key, stored string, err error) response {
	switch {
	case errors.Is(err, ErrBadValue):
		return response{text: "ERR bad_value:" + key}
	case err != nil:
		return response{text: "ERR " + vocab + ":" + key}
	}
	return response{text: "ACK " + key + "=" + stored}
}

func unknownCommand(detail string) response {
	return response{text: "ERR unknown_command:" + detail}
}

func (c *Controller) configReply() response {
	return response{text: "CONFIG " + joinPairs(c.cfg.pairs())}
}

func (c *Controller) statusReply() response {
	return response{text: c.statusLine()}
}

func (c *Controller) ioReply() response {
	return response{text: "IO " + joinPairs(c.state.pairs())}
}

// statusPairs flattens dimensions, volume, config, and IO state into the
// dotted-path ordering the STATUS line publishes.
func (c *Controller) statusPairs() []pair {
	pairs := prefixPairs("dimensions_ft", c.dims.pairs())
	pairs = append(pairs, pair{"volume_ft3", formatFloat(c.dims.VolumeFt3())})
	pairs = append(pairs, prefixPairs("config", c.cfg.pairs())...)
	return append(pairs, prefixPairs("io", c.state.pairs())...)
}

func (c *Controller) statusLine() string {
	return "STATUS " + joinPairs(c.statusPairs())
}

// ============================================================
// Control loop and publication
// ============================================================

func (c *Controller) runControlLogic() {
	now := c.now()

	// The alarm mirrors the button with no debounce or latch.
	c.state.PanicAlarmOn = c.state.PanicButtonPressed

	if !c.state.PowerOK {
		// Thermostat evaluation is suspended while power is out.
		c.setCompressor(false, now)
		return
	}

	upper := c.cfg.TargetTempC + c.cfg.HysteresisC
	lower := c.cfg.TargetTempC - c.cfg.HysteresisC

	switch {
	case c.state.AirTempC >= upper:
		minOff := time.Duration(c.cfg.CompressorMinOffS) * time.Second
		if now.Sub(c.lastCompressorOff) >= minOff {
			c.state.CompressorOn = true
		}
	case c.state.AirTempC <= lower:
		c.setCompressor(false, now)
	}
	// Inside the dead band the compressor holds its previous state.
}

// setCompressor applies the requested state, recording the off timestamp
// only on an on to off transition so repeated off ticks do not refresh the
// minimum-off timer.
func (c *Controller) setCompressor(on bool, now time.Time) {
	if !on && c.state.CompressorOn {
		c.lastCompressorOff = now
	}
	c.state.CompressorOn = on
}

// publishStatus writes the status line to the monitor channel when it
// differs from the last published one. Explicit GET requests bypass this
// cache; only unsolicited publication is de-duplicated.
func (c *Controller) publishStatus() {
	line := c.statusLine()
	if line == c.lastStatus {
		return
	}
	c.monitor.WriteLine(line)
	c.lastStatus = line
}
