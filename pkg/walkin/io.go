// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package walkin

import (
	"fmt"
	"strconv"
)

// IOState mirrors the controller's sensor inputs and control outputs.
// CompressorOn and PanicAlarmOn are derived by the control loop each step
// and cannot be set through the protocol.
type IOState struct {
	AirTempC           float64
	DoorOpen           bool
	PowerOK            bool
	MotionDetected     bool
	PanicButtonPressed bool
	CompressorOn       bool
	PanicAlarmOn       bool
}

// DefaultIOState returns the power-on state: 8 degrees C air, mains good,
// everything else idle.
func DefaultIOState() IOState {
	return IOState{AirTempC: 8.0, PowerOK: true}
}

// SetSensor applies an analog sensor override. air_temp_c is the only
// sensor the simulation carries.
func (s *IOState) SetSensor(key, value string) (string, error) {
	if key != "air_temp_c" {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return setFloatField(&s.AirTempC, key, value)
}

// SetInput drives one digital input. Values follow the wire convention:
// 0 is false, any other integer is true. The returned string is the stored
// state rendered as 1/0.
func (s *IOState) SetInput(key, value string) (string, error) {
	var field *bool
	switch key {
	case "door_open":
		field = &s.DoorOpen
	case "power_ok":
		field = &s.PowerOK
	case "motion_detected":
		field = &s.MotionDetected
	case "panic_button_pressed":
		field = &s.PanicButtonPressed
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	v, err := strconv.Atoi(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s=%s", ErrBadValue, key, value)
	}
	*field = v != 0
	return formatBool(*field), nil
}

// pairs lists the IO fields in their reply order.
func (s IOState) pairs() []pair {
	return []pair{
		{"air_temp_c", formatFloat(s.AirTempC)},
		{"door_open", formatBool(s.DoorOpen)},
		{"power_ok", formatBool(s.PowerOK)},
		{"motion_detected", formatBool(s.MotionDetected)},
		{"panic_button_pressed", formatBool(s.PanicButtonPressed)},
		{"compressor_on", formatBool(s.CompressorOn)},
		{"panic_alarm_on", formatBool(s.PanicAlarmOn)},
	}
}
