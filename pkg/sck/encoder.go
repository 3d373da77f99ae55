// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import (
	"encoding/binary"
	"fmt"
)

// EncodeFrame serializes a frame to wire format.
// Returns the frame bytes ready for transmission, including framing and CRC.
func EncodeFrame(f *Frame) ([]byte, error) {
	if f.kind != KindCommand && f.kind != KindStatus {
		return nil, fmt.Errorf("%w: frame type 0x%02X", ErrInvalidFrame, f.kind)
	}
	if len(f.payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: payload too large: %d bytes (max %d)", ErrInvalidFrame, len(f.payload), MaxPayloadSize)
	}
	length := lengthOverhead + len(f.payload)

	size := frameOverhead + len(f.payload)
	buf := make([]byte, size)
	buf[0] = StartByte
	binary.LittleEndian.PutUint16(buf[1:3], f.version)
	binary.LittleEndian.PutUint16(buf[3:5], uint16(length))
	buf[5] = f.tid
	buf[6] = f.kind
	binary.LittleEndian.PutUint16(buf[7:9], f.command)
	copy(buf[9:], f.payload)

	crc := frameCRC(buf, len(f.payload))
	binary.LittleEndian.PutUint16(buf[size-3:size-1], crc)
	buf[size-1] = EndByte

	return buf, nil
}

// MustEncodeFrame encodes a frame built by this package.
// Panics on encoding error (use EncodeFrame for error handling).
func MustEncodeFrame(f *Frame) []byte {
	data, err := EncodeFrame(f)
	if err != nil {
		panic(fmt.Sprintf("sck: encode error: %v", err))
	}
	return data
}
