// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatLine renders a serialized frame as a transport line: the "SCK"
// marker followed by each byte as two uppercase hex digits.
func FormatLine(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(LinePrefix) + 3*len(data))
	sb.WriteString(LinePrefix)
	for _, b := range data {
		fmt.Fprintf(&sb, " %02X", b)
	}
	return sb.String()
}

// LineFromFrame encodes a frame and renders it as a transport line
func LineFromFrame(f *Frame) (string, error) {
	data, err := EncodeFrame(f)
	if err != nil {
		return "", err
	}
	return FormatLine(data), nil
}

// ParseLine decodes a transport line into a frame. The boolean return is
// false when the line does not carry the "SCK " marker; such lines are
// ordinary text, not an error. Lines carrying the marker that fail hex or
// frame decoding return an error wrapping ErrInvalidFrame.
func ParseLine(line string) (*Frame, bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, LinePrefix+" ") {
		return nil, false, nil
	}

	body := strings.TrimSpace(trimmed[len(LinePrefix)+1:])
	if body == "" {
		return nil, true, fmt.Errorf("%w: missing hex payload", ErrInvalidFrame)
	}

	tokens := strings.Fields(body)
	data := make([]byte, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, true, fmt.Errorf("%w: invalid hex byte %q", ErrInvalidFrame, tok)
		}
		data = append(data, byte(v))
	}

	frame, err := DecodeFrame(data)
	if err != nil {
		return nil, true, err
	}
	return frame, true, nil
}
