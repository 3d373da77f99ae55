// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import "fmt"

// FormatFrame formats a frame into a human-readable string
func FormatFrame(f *Frame) string {
	timestamp := f.timestamp.Format("15:04:05.000")
	name := FormatCommand(f.command)
	kind := "STATUS"
	if f.IsCommand() {
		kind = "COMMAND"
	}

	result := fmt.Sprintf("[%s] %s %s (0x%04X) tid=%d ver=0x%04X len=%d\n",
		timestamp, kind, name, f.command, f.tid, f.version, len(f.payload))

	if len(f.payload) == 0 {
		result += "  (no payload)\n"
	} else {
		result += fmt.Sprintf("  Payload: %q\n", f.PayloadText())
	}

	return result
}

// FormatCommand returns the human-readable name for a command code
func FormatCommand(command uint16) string {
	switch command {
	// Monitor channel (0x00xx)
	case CmdMonitorSetConfig:
		return "MONITOR_SET_CONFIG"
	case CmdMonitorGetConfig:
		return "MONITOR_GET_CONFIG"
	case CmdMonitorGetStatus:
		return "MONITOR_GET_STATUS"

	// IO channel (0x01xx)
	case CmdIOSetSensor:
		return "IO_SET_SENSOR"
	case CmdIOSetInput:
		return "IO_SET_INPUT"
	case CmdIOGetIO:
		return "IO_GET_IO"

	default:
		return "UNKNOWN"
	}
}
