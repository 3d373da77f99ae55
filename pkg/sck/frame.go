// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Encoding and decoding failures wrap ErrInvalidFrame so callers can fall
// back to plain-text handling with errors.Is. CRC failures additionally
// match ErrCRCMismatch.
var (
	ErrInvalidFrame = errors.New("invalid SCK frame")
	ErrCRCMismatch  = fmt.Errorf("%w: CRC mismatch", ErrInvalidFrame)
)

// Frame represents a decoded SCK protocol frame
type Frame struct {
	version   uint16
	tid       uint8
	kind      byte // 'C' or 'S'
	command   uint16
	payload   []byte
	crc       uint16
	timestamp time.Time
}

// NewFrame creates a frame with the given fields
func NewFrame(version uint16, tid uint8, kind byte, command uint16, payload []byte) *Frame {
	return &Frame{
		version:   version,
		tid:       tid,
		kind:      kind,
		command:   command,
		payload:   payload,
		timestamp: time.Now(),
	}
}

// NewCommandFrame creates a command frame with the default protocol version.
func NewCommandFrame(command uint16, tid uint8, payload []byte) *Frame {
	return NewFrame(DefaultVersion, tid, KindCommand, command, payload)
}

// Version returns the frame's protocol version
func (f *Frame) Version() uint16 {
	return f.version
}

// TID returns the frame's transaction id
func (f *Frame) TID() uint8 {
	return f.tid
}

// Kind returns the frame type byte ('C' for command, 'S' for status)
func (f *Frame) Kind() byte {
	return f.kind
}

// Command returns the frame's command code
func (f *Frame) Command() uint16 {
	return f.command
}

// Payload returns the raw payload bytes
func (f *Frame) Payload() []byte {
	return f.payload
}

// PayloadText returns the payload as text with invalid UTF-8 bytes dropped
func (f *Frame) PayloadText() string {
	return strings.ToValidUTF8(string(f.payload), "")
}

// CRC returns the frame's checksum as read off the wire
func (f *Frame) CRC() uint16 {
	return f.crc
}

// Timestamp returns the frame's decode timestamp
func (f *Frame) Timestamp() time.Time {
	return f.timestamp
}

// IsCommand returns true if the frame is a command ('C') frame
func (f *Frame) IsCommand() bool {
	return f.kind == KindCommand
}

// IsStatus returns true if the frame is a status ('S') frame
func (f *Frame) IsStatus() bool {
	return f.kind == KindStatus
}
