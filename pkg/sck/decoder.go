// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import (
	"encoding/binary"
	"fmt"
	"time"
)

// DecodeFrame parses a complete serialized frame.
// The input must span exactly one frame, STX through ETX.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < MinFrameSize {
		return nil, fmt.Errorf("%w: frame too short: %d bytes", ErrInvalidFrame, len(data))
	}
	if data[0] != StartByte {
		return nil, fmt.Errorf("%w: missing STX", ErrInvalidFrame)
	}
	if data[len(data)-1] != EndByte {
		return nil, fmt.Errorf("%w: missing ETX", ErrInvalidFrame)
	}

	version := binary.LittleEndian.Uint16(data[1:3])
	length := int(binary.LittleEndian.Uint16(data[3:5]))
	tid := data[5]
	kind := data[6]
	command := binary.LittleEndian.Uint16(data[7:9])

	payloadLen := length - lengthOverhead
	if payloadLen < 0 {
		return nil, fmt.Errorf("%w: invalid LENGTH %d", ErrInvalidFrame, length)
	}
	if frameOverhead+payloadLen != len(data) {
		return nil, fmt.Errorf("%w: LENGTH %d inconsistent with %d-byte frame", ErrInvalidFrame, length, len(data))
	}

	payload := data[9 : 9+payloadLen]
	wireCRC := binary.LittleEndian.Uint16(data[9+payloadLen : 11+payloadLen])
	if crc := frameCRC(data, payloadLen); crc != wireCRC {
		return nil, fmt.Errorf("%w: expected 0x%04X, got 0x%04X", ErrCRCMismatch, crc, wireCRC)
	}

	if kind != KindCommand && kind != KindStatus {
		return nil, fmt.Errorf("%w: frame type 0x%02X", ErrInvalidFrame, kind)
	}

	return &Frame{
		version:   version,
		tid:       tid,
		kind:      kind,
		command:   command,
		payload:   payload,
		crc:       wireCRC,
		timestamp: time.Now(),
	}, nil
}

// StreamDecoder implements the SCK frame decoder state machine for raw byte
// streams. SCK payload bytes are not escaped, so the decoder is length-driven:
// STX is only meaningful while hunting for a frame and ETX is only expected
// once the checksum has been consumed. Recovery from a torn frame happens at
// the CRC or ETX check, after which the decoder hunts for the next STX.
type StreamDecoder struct {
	state      int
	fieldBytes int
	version    uint16
	length     int
	tid        uint8
	kind       byte
	command    uint16
	payload    []byte
	wireCRC    uint16
	crcInput   []byte // LENGTH + type + command + payload bytes in wire order
	rawBuffer  []byte // accumulated raw bytes including framing
}

// NewStreamDecoder creates a new protocol decoder
func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{
		state:     stateIdle,
		crcInput:  make([]byte, 0, 64),
		rawBuffer: make([]byte, 0, 64),
	}
}

// Reset resets the decoder state to idle
func (d *StreamDecoder) Reset() {
	d.state = stateIdle
	d.fieldBytes = 0
	d.version = 0
	d.length = 0
	d.tid = 0
	d.kind = 0
	d.command = 0
	d.payload = nil
	d.wireCRC = 0
	d.crcInput = d.crcInput[:0]
	d.rawBuffer = d.rawBuffer[:0]
}

// GetRawBytes returns the accumulated raw bytes since the last frame
func (d *StreamDecoder) GetRawBytes() []byte {
	return d.rawBuffer
}

// DecodeByte processes a single byte through the decoder state machine
// Returns a completed frame, or nil if the frame is incomplete
// Returns an error if decoding fails
func (d *StreamDecoder) DecodeByte(b byte) (*Frame, error) {
	if d.state == stateIdle {
		// Hunting for STX; anything else is inter-frame noise
		if b == StartByte {
			d.rawBuffer = append(d.rawBuffer[:0], b)
			d.state = stateVersion
			d.fieldBytes = 0
		}
		return nil, nil
	}

	d.rawBuffer = append(d.rawBuffer, b)

	switch d.state {
	case stateVersion:
		d.version |= uint16(b) << (8 * d.fieldBytes)
		d.fieldBytes++
		if d.fieldBytes == 2 {
			d.state = stateLength
			d.fieldBytes = 0
		}
		return nil, nil

	case stateLength:
		d.length |= int(b) << (8 * d.fieldBytes)
		d.crcInput = append(d.crcInput, b)
		d.fieldBytes++
		if d.fieldBytes == 2 {
			if d.length < lengthOverhead || d.length > MaxLength {
				err := fmt.Errorf("%w: invalid LENGTH %d", ErrInvalidFrame, d.length)
				d.Reset()
				return nil, err
			}
			d.state = stateTID
		}
		return nil, nil

	case stateTID:
		d.tid = b
		d.state = stateType
		return nil, nil

	case stateType:
		if b != KindCommand && b != KindStatus {
			err := fmt.Errorf("%w: frame type 0x%02X", ErrInvalidFrame, b)
			d.Reset()
			return nil, err
		}
		d.kind = b
		d.crcInput = append(d.crcInput, b)
		d.state = stateCommand
		d.fieldBytes = 0
		return nil, nil

	case stateCommand:
		d.command |= uint16(b) << (8 * d.fieldBytes)
		d.crcInput = append(d.crcInput, b)
		d.fieldBytes++
		if d.fieldBytes == 2 {
			d.fieldBytes = 0
			if d.length == lengthOverhead {
				d.state = stateCRC
			} else {
				d.payload = make([]byte, 0, d.length-lengthOverhead)
				d.state = statePayload
			}
		}
		return nil, nil

	case statePayload:
		d.payload = append(d.payload, b)
		d.crcInput = append(d.crcInput, b)
		if len(d.payload) >= d.length-lengthOverhead {
			d.state = stateCRC
			d.fieldBytes = 0
		}
		return nil, nil

	case stateCRC:
		d.wireCRC |= uint16(b) << (8 * d.fieldBytes)
		d.fieldBytes++
		if d.fieldBytes == 2 {
			d.state = stateEnd
		}
		return nil, nil

	case stateEnd:
		if b != EndByte {
			err := fmt.Errorf("%w: missing ETX after checksum", ErrInvalidFrame)
			d.Reset()
			return nil, err
		}
		if crc := CalculateCRC(d.crcInput); crc != d.wireCRC {
			err := fmt.Errorf("%w: expected 0x%04X, got 0x%04X", ErrCRCMismatch, crc, d.wireCRC)
			d.Reset()
			return nil, err
		}
		frame := &Frame{
			version:   d.version,
			tid:       d.tid,
			kind:      d.kind,
			command:   d.command,
			payload:   d.payload,
			crc:       d.wireCRC,
			timestamp: time.Now(),
		}
		d.Reset()
		return frame, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("%w: invalid decoder state %d", ErrInvalidFrame, d.state)
	}
}
