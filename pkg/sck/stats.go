// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sck

import (
	"errors"
	"fmt"
	"time"
)

// Stats tracks frame statistics and error rates for a monitored stream
type Stats struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames     uint64
	ValidFrames     uint64
	TextLines       uint64
	CRCErrors       uint64
	DecodeErrors    uint64
	AnomalousFrames uint64
	UnknownCommands uint64
	ShapeErrors     uint64
	EncodingErrors  uint64
	VersionSkew     uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStats creates a new statistics tracker
func NewStats() *Stats {
	now := time.Now()
	return &Stats{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update updates statistics based on a frame and its errors
func (s *Stats) Update(frame *Frame, decodeErr error, validationErrors []ValidationError) {
	s.TotalFrames++

	if decodeErr != nil {
		if errors.Is(decodeErr, ErrCRCMismatch) {
			s.CRCErrors++
		} else {
			// Other decode errors (framing, length, hex)
			s.DecodeErrors++
		}
		return // Don't process the frame further if decode failed
	}

	if len(validationErrors) > 0 {
		for _, err := range validationErrors {
			switch err.Type {
			case AnomalyUnknownCommand:
				s.UnknownCommands++
			case AnomalyPayloadShape:
				s.ShapeErrors++
			case AnomalyPayloadEncoding:
				s.EncodingErrors++
			case AnomalyVersionSkew:
				s.VersionSkew++
			}
			s.AnomalousFrames++
		}
	} else {
		s.ValidFrames++
	}

	s.LastUpdateTime = time.Now()
}

// CountTextLine records a non-frame line observed on the stream
func (s *Stats) CountTextLine() {
	s.TextLines++
	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates frame and error rates
func (s *Stats) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		errorCount := s.CRCErrors + s.DecodeErrors + s.AnomalousFrames
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Stats) String() string {
	s.CalculateRates()

	var validPercent, crcErrorPercent, decodeErrorPercent, anomalousPercent float64
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
		crcErrorPercent = float64(s.CRCErrors) * 100.0 / float64(s.TotalFrames)
		decodeErrorPercent = float64(s.DecodeErrors) * 100.0 / float64(s.TotalFrames)
		anomalousPercent = float64(s.AnomalousFrames) * 100.0 / float64(s.TotalFrames)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)

	if s.TextLines > 0 {
		result += fmt.Sprintf("Text Lines:      %8d\n", s.TextLines)
	}
	if s.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d (%.1f%%)\n", s.CRCErrors, crcErrorPercent)
	}
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d (%.1f%%)\n", s.DecodeErrors, decodeErrorPercent)
	}
	if s.AnomalousFrames > 0 {
		result += fmt.Sprintf("Anomalous Frames:%8d (%.1f%%)\n", s.AnomalousFrames, anomalousPercent)
		if s.UnknownCommands > 0 {
			result += fmt.Sprintf("  Unknown Commands: %5d\n", s.UnknownCommands)
		}
		if s.ShapeErrors > 0 {
			result += fmt.Sprintf("  Payload Shape:    %5d\n", s.ShapeErrors)
		}
		if s.EncodingErrors > 0 {
			result += fmt.Sprintf("  Bad Encoding:     %5d\n", s.EncodingErrors)
		}
		if s.VersionSkew > 0 {
			result += fmt.Sprintf("  Version Skew:     %5d\n", s.VersionSkew)
		}
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Stats) Reset() {
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalFrames = 0
	s.ValidFrames = 0
	s.TextLines = 0
	s.CRCErrors = 0
	s.DecodeErrors = 0
	s.AnomalousFrames = 0
	s.UnknownCommands = 0
	s.ShapeErrors = 0
	s.EncodingErrors = 0
	s.VersionSkew = 0
	s.FrameRate = 0
	s.ErrorRate = 0
}
