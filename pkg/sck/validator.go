// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// AnomalyType represents different types of frame anomalies
type AnomalyType int

const (
	AnomalyUnknownCommand AnomalyType = iota
	AnomalyPayloadShape
	AnomalyPayloadEncoding
	AnomalyVersionSkew
	AnomalyCRCError
	AnomalyDecodeError
)

// ValidationError represents a frame validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateFrame inspects a decoded frame and reports anomalies a well-behaved
// peer never produces. A controller still answers anomalous frames (unknown
// commands get an ERR reply); validation exists for passive line monitoring.
// Returns a slice of validation errors (empty if the frame is clean).
func ValidateFrame(f *Frame) []ValidationError {
	errors := []ValidationError{}

	switch f.Command() {
	case CmdMonitorSetConfig, CmdIOSetSensor, CmdIOSetInput:
		if f.IsCommand() {
			errors = append(errors, validateSetPayload(f)...)
		}
	case CmdMonitorGetConfig, CmdMonitorGetStatus, CmdIOGetIO:
		// GET commands carry no payload; controllers ignore extra bytes
	default:
		errors = append(errors, ValidationError{
			Type:    AnomalyUnknownCommand,
			Message: fmt.Sprintf("Unknown command code 0x%04X", f.Command()),
			Details: map[string]interface{}{"command": f.Command()},
		})
	}

	if !utf8.Valid(f.Payload()) {
		errors = append(errors, ValidationError{
			Type:    AnomalyPayloadEncoding,
			Message: "Payload is not valid UTF-8",
			Details: map[string]interface{}{"length": len(f.Payload())},
		})
	}

	if f.Version() != DefaultVersion {
		errors = append(errors, ValidationError{
			Type:    AnomalyVersionSkew,
			Message: fmt.Sprintf("Unexpected protocol version 0x%04X (expected 0x%04X)", f.Version(), DefaultVersion),
			Details: map[string]interface{}{"version": f.Version(), "expected": uint16(DefaultVersion)},
		})
	}

	return errors
}

// validateSetPayload checks that a SET command carries key=value text
func validateSetPayload(f *Frame) []ValidationError {
	text := f.PayloadText()
	if !strings.Contains(text, "=") {
		return []ValidationError{{
			Type:    AnomalyPayloadShape,
			Message: fmt.Sprintf("%s payload missing key=value form", FormatCommand(f.Command())),
			Details: map[string]interface{}{"payload": text},
		}}
	}
	return []ValidationError{}
}
