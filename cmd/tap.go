// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Thermoquad/frigostat/pkg/sck"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

var (
	tapRaw           bool
	tapStatsInterval int
	tapCapture       string
)

var tapCmd = &cobra.Command{
	Use:   "tap",
	Short: "Passively monitor a controller channel",
	Long: `Watch one controller channel and decode everything that goes by.

In line mode (the default), each received line is classified: SCK hex lines
are decoded and pretty-printed, plain text lines are shown as-is, and
malformed frames are highlighted. Use --raw for unframed binary SCK streams;
bytes are then fed through the stream decoder, which resynchronizes on STX.

Decoded frames are checked for anomalies a well-behaved peer never produces
(unknown command codes, malformed SET payloads, version skew). Statistics
summaries print at a configurable interval.

With --capture, every observation is appended to a CBOR record file for
offline analysis.

Press Ctrl+C to exit.`,
	RunE: runTap,
}

func init() {
	rootCmd.AddCommand(tapCmd)
	tapCmd.Flags().BoolVar(&tapRaw, "raw", false, "Decode a raw binary SCK byte stream instead of lines")
	tapCmd.Flags().IntVar(&tapStatsInterval, "stats-interval", 10, "Statistics update interval (seconds)")
	tapCmd.Flags().StringVar(&tapCapture, "capture", "", "Append CBOR observation records to this file")
}

// captureRecord is one observed line in a CBOR capture file
type captureRecord struct {
	Seq     uint64    `cbor:"seq"`
	Time    time.Time `cbor:"time"`
	Raw     string    `cbor:"raw"`
	Verdict string    `cbor:"verdict"`
}

// captureWriter appends observation records to a capture file.
// A nil writer swallows records so call sites need no capture checks.
type captureWriter struct {
	enc *cbor.Encoder
	seq uint64
}

func (c *captureWriter) record(raw, verdict string) {
	if c == nil {
		return
	}
	c.seq++
	rec := captureRecord{Seq: c.seq, Time: time.Now(), Raw: raw, Verdict: verdict}
	if err := c.enc.Encode(rec); err != nil {
		log.Printf("capture write failed: %v", err)
	}
}

func runTap(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	var cw *captureWriter
	if tapCapture != "" {
		f, err := os.OpenFile(tapCapture, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open capture file: %v", err)
		}
		defer f.Close()
		cw = &captureWriter{enc: cbor.NewEncoder(f)}
	}

	fmt.Printf("Frigostat - Channel Tap\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Statistics interval: %d seconds\n", tapStatsInterval)
	if tapRaw {
		fmt.Printf("Mode: raw byte stream\n")
	} else {
		fmt.Printf("Mode: lines\n")
	}
	if tapCapture != "" {
		fmt.Printf("Capture: %s\n", tapCapture)
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stats := sck.NewStats()

	// Statistics ticker
	statsTicker := time.NewTicker(time.Duration(tapStatsInterval) * time.Second)
	defer statsTicker.Stop()

	if tapRaw {
		return tapRawStream(conn, stats, cw, statsTicker)
	}
	return tapLines(conn, stats, cw, statsTicker)
}

// tapLines is line mode: each received line is classified and printed
func tapLines(conn Connection, stats *sck.Stats, cw *captureWriter, statsTicker *time.Ticker) error {
	lines := make(chan string, 64)
	errs := make(chan error, 1)
	go readLines(conn, lines, errs)

	for {
		select {
		case line := <-lines:
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			tapOneLine(line, stats, cw)

		case err := <-errs:
			if errors.Is(err, io.EOF) || errors.Is(err, ErrConnectionClosed) {
				log.Printf("Connection closed")
				return nil
			}
			return fmt.Errorf("read error: %v", err)

		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}

func tapOneLine(line string, stats *sck.Stats, cw *captureWriter) {
	frame, marked, err := sck.ParseLine(line)
	if !marked {
		stats.CountTextLine()
		fmt.Printf("TEXT: %s\n", line)
		cw.record(line, "text")
		return
	}

	if err != nil {
		stats.Update(nil, err, nil)
		printDecodeError(err)
		cw.record(line, "error: "+err.Error())
		return
	}

	validationErrors := sck.ValidateFrame(frame)
	stats.Update(frame, nil, validationErrors)

	if len(validationErrors) > 0 {
		printValidationErrors(frame, validationErrors)
		cw.record(line, "anomalous")
		return
	}

	fmt.Print(sck.FormatFrame(frame))
	cw.record(line, "frame")
}

// tapRawStream is byte mode: the stream decoder hunts for frames in an
// unframed binary stream, resynchronizing on STX after errors
func tapRawStream(conn Connection, stats *sck.Stats, cw *captureWriter, statsTicker *time.Ticker) error {
	decoder := sck.NewStreamDecoder()

	// Sync tracking - ignore decode errors until the first valid frame
	synchronized := false
	invalidBytesBeforeSync := 0

	// Channel for non-blocking reads
	data := make(chan []byte, 10)
	errs := make(chan error, 1)
	go func() {
		buf := make([]byte, 128)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				errs <- err
				return
			}
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			data <- chunk
		}
	}()

	for {
		select {
		case chunk := <-data:
			for _, b := range chunk {
				frame, decodeErr := decoder.DecodeByte(b)

				if decodeErr != nil {
					if synchronized {
						stats.Update(nil, decodeErr, nil)
						printDecodeError(decodeErr)
						cw.record("", "error: "+decodeErr.Error())
					} else {
						// Not synced yet, just count invalid bytes
						invalidBytesBeforeSync++
					}
					continue
				}
				if frame == nil {
					continue
				}

				if !synchronized {
					// First frame! We're now synchronized
					synchronized = true
					if invalidBytesBeforeSync > 0 {
						fmt.Printf("[SYNC] Synchronized after skipping %d invalid bytes\n\n", invalidBytesBeforeSync)
					} else {
						fmt.Printf("[SYNC] Synchronized\n\n")
					}
				}

				validationErrors := sck.ValidateFrame(frame)
				stats.Update(frame, nil, validationErrors)

				wire := sck.FormatLine(sck.MustEncodeFrame(frame))
				if len(validationErrors) > 0 {
					printValidationErrors(frame, validationErrors)
					cw.record(wire, "anomalous")
				} else {
					fmt.Print(sck.FormatFrame(frame))
					cw.record(wire, "frame")
				}
			}

		case err := <-errs:
			if errors.Is(err, io.EOF) || errors.Is(err, ErrConnectionClosed) {
				log.Printf("Connection closed")
				return nil
			}
			return fmt.Errorf("read error: %v", err)

		case <-statsTicker.C:
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	}
}

// printDecodeError prints a decode error in highlighted format
func printDecodeError(err error) {
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;31mDECODE ERROR:\033[0m %v\n\n", timestamp, err)
}

// printValidationErrors prints validation findings for an anomalous frame
func printValidationErrors(frame *sck.Frame, validationErrors []sck.ValidationError) {
	timestamp := frame.Timestamp().Format("15:04:05.000")
	name := sck.FormatCommand(frame.Command())

	fmt.Printf("[%s] \033[1;33mANOMALOUS FRAME:\033[0m %s (0x%04X) tid=%d\n",
		timestamp, name, frame.Command(), frame.TID())
	fmt.Printf("  CRC: \033[1;32mOK\033[0m\n")

	for i, verr := range validationErrors {
		fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, verr.Message)
		if payload, ok := verr.Details["payload"].(string); ok {
			fmt.Printf("    payload=%q\n", payload)
		}
	}

	fmt.Printf("\n")
}
