// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

// CalculateCRC computes the CRC-16/IBM checksum for the given data
func CalculateCRC(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&0x0001 != 0 {
				crc = (crc >> 1) ^ crcPolynomial
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// frameCRC computes the checksum of a serialized frame. The checksum covers
// the LENGTH field, frame type, command, and payload; the version and
// transaction id bytes are excluded for compatibility with fielded firmware.
func frameCRC(buf []byte, payloadLen int) uint16 {
	input := make([]byte, 0, 5+payloadLen)
	input = append(input, buf[3:5]...)
	input = append(input, buf[6:9+payloadLen]...)
	return CalculateCRC(input)
}
