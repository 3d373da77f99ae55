// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package sck provides a reference Go implementation of the SCK serial protocol.
//
// SCK is a binary framed protocol for communication between supervisory tools
// and walk-in refrigeration controllers in the Thermoquad ecosystem. This
// package provides frame encoding/decoding, CRC validation, hex line
// formatting, and payload inspection.
//
// See the SCK specification at origin/documentation/source/specifications/sck/
package sck

// Protocol framing bytes
const (
	StartByte = 0x02 // STX
	EndByte   = 0x03 // ETX
)

// Frame size limits. LENGTH counts the frame type, command, and payload
// bytes; the surrounding framing, header, and checksum are fixed overhead.
const (
	MinFrameSize   = 11   // decode rejects anything shorter before field extraction
	MaxLength      = 1023 // LENGTH field upper bound
	MaxPayloadSize = MaxLength - lengthOverhead

	lengthOverhead = 3  // type + command bytes counted by LENGTH
	frameOverhead  = 12 // STX + version + LENGTH + tid + type + command + CRC + ETX
)

// DefaultVersion is stamped on frames built by this package. Fielded
// controllers do not interpret the version but echo it in replies.
const DefaultVersion = 0x0420

// LinePrefix marks a hex-encoded frame carried over a line transport.
const LinePrefix = "SCK"

// CRC-16/IBM configuration (reflected)
const (
	crcPolynomial = 0xA001
	crcInitial    = 0xFFFF
)

// Frame kinds
const (
	KindCommand = 'C' // request, supervisor → controller
	KindStatus  = 'S' // reply, controller → supervisor
)

// Command codes - Monitor channel 0x00xx
const (
	CmdMonitorSetConfig = 0x0001
	CmdMonitorGetConfig = 0x0002
	CmdMonitorGetStatus = 0x0003
)

// Command codes - IO channel 0x01xx
const (
	CmdIOSetSensor = 0x0101
	CmdIOSetInput  = 0x0102
	CmdIOGetIO     = 0x0103
)

// Decoder states (internal)
// No escape handling - SCK payloads are unstuffed, the decoder is length-driven
const (
	stateIdle = iota
	stateVersion
	stateLength
	stateTID
	stateType
	stateCommand
	statePayload
	stateCRC
	stateEnd
)
