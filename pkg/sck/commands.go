// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import "strconv"

// Command builder functions create Frame structs ready for encoding.
// These are convenience wrappers around NewCommandFrame that ensure
// correct command codes and payload shapes per the SCK protocol.

// NewSetConfigCommand creates a MONITOR_SET_CONFIG frame (0x0001).
// The payload carries "key=value" text; the controller coerces the value
// into the configuration field's type before applying it.
func NewSetConfigCommand(tid uint8, key, value string) *Frame {
	return NewCommandFrame(CmdMonitorSetConfig, tid, []byte(key+"="+value))
}

// NewGetConfigCommand creates a MONITOR_GET_CONFIG frame (0x0002).
// The controller replies with the flattened configuration.
func NewGetConfigCommand(tid uint8) *Frame {
	return NewCommandFrame(CmdMonitorGetConfig, tid, nil)
}

// NewGetStatusCommand creates a MONITOR_GET_STATUS frame (0x0003).
// The controller replies with the full flattened status snapshot.
func NewGetStatusCommand(tid uint8) *Frame {
	return NewCommandFrame(CmdMonitorGetStatus, tid, nil)
}

// NewSetSensorCommand creates an IO_SET_SENSOR frame (0x0101).
// Overrides a simulated sensor reading, e.g. air_temp_c.
func NewSetSensorCommand(tid uint8, sensor string, value float64) *Frame {
	payload := sensor + "=" + strconv.FormatFloat(value, 'g', -1, 64)
	return NewCommandFrame(CmdIOSetSensor, tid, []byte(payload))
}

// NewSetInputCommand creates an IO_SET_INPUT frame (0x0102).
// Drives a simulated digital input: door_open, power_ok, motion_detected,
// or panic_button_pressed.
func NewSetInputCommand(tid uint8, input string, on bool) *Frame {
	v := "0"
	if on {
		v = "1"
	}
	return NewCommandFrame(CmdIOSetInput, tid, []byte(input+"="+v))
}

// NewGetIOCommand creates an IO_GET_IO frame (0x0103).
// The controller replies with the flattened IO state.
func NewGetIOCommand(tid uint8) *Frame {
	return NewCommandFrame(CmdIOGetIO, tid, nil)
}

// NewStatusReply creates the status ('S') frame answering a command frame.
// The reply carries the request's command code and echoes its protocol
// version and transaction id so the peer can correlate it.
func NewStatusReply(req *Frame, text string) *Frame {
	return NewFrame(req.version, req.tid, KindStatus, req.command, []byte(text))
}
