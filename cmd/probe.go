// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Thermoquad/frigostat/pkg/sck"
	"github.com/spf13/cobra"
)

var probeTimeout int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Probe a controller's monitor channel in both protocol forms",
	Long: `Check that a controller is alive by requesting its status twice: first as
the plain-text GET STATUS line, then as a framed MONITOR_GET_STATUS command.

The probe reports which of the two forms answered. A healthy controller
answers both; a text-only answer suggests a peer that does not speak SCK
framing. Point --port or --url at the monitor channel.

Exit codes:
  0 - At least one form answered
  1 - No reply in either form
  2 - Connection error`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 5, "Timeout in seconds per attempt")
}

// probeOnce writes one request line and waits for a line accepted by match.
// Returns ok=false on timeout; a non-nil error means the connection failed.
func probeOnce(conn Connection, lines <-chan string, errs <-chan error, sent string, match func(string) bool) (time.Duration, bool, error) {
	if err := writeLine(conn, sent); err != nil {
		return 0, false, err
	}

	start := time.Now()
	deadline := time.After(time.Duration(probeTimeout) * time.Second)
	for {
		select {
		case rx := <-lines:
			rx = strings.TrimSpace(rx)
			if rx == "" || rx == sent {
				// Blank traffic or our own echo on a looped-back wire
				continue
			}
			if match(rx) {
				return time.Since(start), true, nil
			}
			// Unsolicited publication or unrelated reply; keep waiting

		case err := <-errs:
			return 0, false, err

		case <-deadline:
			return 0, false, nil
		}
	}
}

func runProbe(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Frigostat - Connectivity Probe\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds per attempt\n\n", probeTimeout)

	lines := make(chan string, 16)
	errs := make(chan error, 1)
	go readLines(conn, lines, errs)

	// Text form: a status reply is a STATUS line
	fmt.Printf("Text probe:   ")
	textRTT, textOK, err := probeOnce(conn, lines, errs, "GET STATUS", func(rx string) bool {
		return strings.HasPrefix(rx, "STATUS ")
	})
	if err != nil {
		fmt.Printf("FAILED\n")
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	if textOK {
		fmt.Printf("OK (reply in %v)\n", textRTT.Round(time.Millisecond))
	} else {
		fmt.Printf("no reply within %ds\n", probeTimeout)
	}

	// Framed form: a status frame echoing the MONITOR_GET_STATUS code
	request, err := sck.LineFromFrame(sck.NewGetStatusCommand(1))
	if err != nil {
		return err
	}
	fmt.Printf("Framed probe: ")
	framedRTT, framedOK, err := probeOnce(conn, lines, errs, request, func(rx string) bool {
		frame, marked, err := sck.ParseLine(rx)
		return marked && err == nil && frame.IsStatus() && frame.Command() == sck.CmdMonitorGetStatus
	})
	if err != nil {
		fmt.Printf("FAILED\n")
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	if framedOK {
		fmt.Printf("OK (reply in %v)\n", framedRTT.Round(time.Millisecond))
	} else {
		fmt.Printf("no reply within %ds\n", probeTimeout)
	}

	// Summary
	verdict := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "no reply"
	}
	fmt.Printf("\n--- Probe summary ---\n")
	fmt.Printf("text=%s framed=%s\n", verdict(textOK), verdict(framedOK))

	if !textOK && !framedOK {
		os.Exit(1)
	}
	return nil
}
