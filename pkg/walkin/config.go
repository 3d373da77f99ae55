// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package walkin

import (
	"errors"
	"fmt"
	"strconv"
)

// Errors surfaced by key/value mutators. The dispatcher maps them onto ERR
// replies; they never stop the step loop.
var (
	ErrUnknownKey = errors.New("unknown key")
	ErrBadValue   = errors.New("bad value")
)

// ControlConfig holds the tunable thermostat parameters. The defrost fields
// are carried as configuration only; no control path reads them yet.
type ControlConfig struct {
	TargetTempC       float64
	HysteresisC       float64
	CompressorMinOffS int
	DefrostIntervalS  int
	DefrostDurationS  int
}

// DefaultConfig returns the factory configuration.
func DefaultConfig() ControlConfig {
	return ControlConfig{
		TargetTempC:       2.0,
		HysteresisC:       1.0,
		CompressorMinOffS: 120,
		DefrostIntervalS:  6 * 60 * 60,
		DefrostDurationS:  20 * 60,
	}
}

// Set coerces value into the named field's existing type and stores it.
// The returned string is the canonical rendering of what was stored, which
// is what ACK replies echo. Unknown keys return ErrUnknownKey; values that
// do not parse as the field's type return ErrBadValue and leave the field
// unchanged.
func (c *ControlConfig) Set(key, value string) (string, error) {
	switch key {
	case "target_temp_c":
		return setFloatField(&c.TargetTempC, key, value)
	case "hysteresis_c":
		return setFloatField(&c.HysteresisC, key, value)
	case "compressor_min_off_s":
		return setIntField(&c.CompressorMinOffS, key, value)
	case "defrost_interval_s":
		return setIntField(&c.DefrostIntervalS, key, value)
	case "defrost_duration_s":
		return setIntField(&c.DefrostDurationS, key, value)
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// pairs lists the config fields in their reply order.
func (c ControlConfig) pairs() []pair {
	return []pair{
		{"target_temp_c", formatFloat(c.TargetTempC)},
		{"hysteresis_c", formatFloat(c.HysteresisC)},
		{"compressor_min_off_s", strconv.Itoa(c.CompressorMinOffS)},
		{"defrost_interval_s", strconv.Itoa(c.DefrostIntervalS)},
		{"defrost_duration_s", strconv.Itoa(c.DefrostDurationS)},
	}
}

// Dimensions describes the refrigerated box in feet. The protocol exposes
// no mutator for it.
type Dimensions struct {
	Length float64
	Width  float64
	Height float64
}

// DefaultDimensions returns the stock 10x10x10 ft box.
func DefaultDimensions() Dimensions {
	return Dimensions{Length: 10.0, Width: 10.0, Height: 10.0}
}

// VolumeFt3 is the derived box volume in cubic feet.
func (d Dimensions) VolumeFt3() float64 {
	return d.Length * d.Width * d.Height
}

func (d Dimensions) pairs() []pair {
	return []pair{
		{"length", formatFloat(d.Length)},
		{"width", formatFloat(d.Width)},
		{"height", formatFloat(d.Height)},
	}
}

func setFloatField(field *float64, key, value string) (string, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %s=%s", ErrBadValue, key, value)
	}
	*field = v
	return formatFloat(v), nil
}

func setIntField(field *int, key, value string) (string, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s=%s", ErrBadValue, key, value)
	}
	*field = v
	return strconv.Itoa(v), nil
}
