// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Thermoquad/frigostat/pkg/sck"
	"github.com/spf13/cobra"
)

var (
	sendTID     int
	sendTimeout int
	sendText    string
	sendCode    string
	sendPayload string
)

var sendCmd = &cobra.Command{
	Use:   "send [verb [key=value]]",
	Short: "Send one command to a controller and print the reply",
	Long: `Compose a single SCK command frame, send it over the connection, and wait
for the reply.

Verb forms (framed):
  send set-config target_temp_c=4      MONITOR_SET_CONFIG
  send get-config                      MONITOR_GET_CONFIG
  send get-status                      MONITOR_GET_STATUS
  send set-sensor air_temp_c=7.5       IO_SET_SENSOR
  send set-input door_open=1           IO_SET_INPUT
  send get-io                          IO_GET_IO

Raw forms:
  send --code 0x0003                   arbitrary command code (framed)
  send --text "GET STATUS"             plain-text line, no framing

SET commands go to the monitor channel; SET_SENSOR, SET_INPUT, and GET IO
go to the IO channel. Point --port or --url at the right one.

Exit codes:
  0 - Reply received before timeout
  1 - Timeout reached without a reply
  2 - Connection error`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().IntVar(&sendTID, "tid", 1, "Transaction id stamped on the frame (0-255)")
	sendCmd.Flags().IntVar(&sendTimeout, "timeout", 5, "Timeout in seconds to wait for the reply")
	sendCmd.Flags().StringVar(&sendText, "text", "", "Send this plain-text line instead of a frame")
	sendCmd.Flags().StringVar(&sendCode, "code", "", "Send a frame with this command code (e.g. 0x0003)")
	sendCmd.Flags().StringVar(&sendPayload, "payload", "", "Payload text for --code frames")
}

// buildSendLine renders the requested command as one transport line
func buildSendLine(args []string) (string, error) {
	if sendTID < 0 || sendTID > 255 {
		return "", fmt.Errorf("--tid must be 0-255, got %d", sendTID)
	}
	tid := uint8(sendTID)

	if sendText != "" {
		return sendText, nil
	}

	if sendCode != "" {
		code, err := strconv.ParseUint(sendCode, 0, 16)
		if err != nil {
			return "", fmt.Errorf("invalid --code %q: %v", sendCode, err)
		}
		frame := sck.NewCommandFrame(uint16(code), tid, []byte(sendPayload))
		return sck.LineFromFrame(frame)
	}

	if len(args) == 0 {
		return "", fmt.Errorf("a verb, --text, or --code is required (see --help)")
	}

	verb := args[0]
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	keyValue := func() (string, string, error) {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return "", "", fmt.Errorf("%s needs a key=value argument", verb)
		}
		return key, value, nil
	}

	var frame *sck.Frame
	switch verb {
	case "set-config":
		key, value, err := keyValue()
		if err != nil {
			return "", err
		}
		frame = sck.NewSetConfigCommand(tid, key, value)

	case "get-config":
		frame = sck.NewGetConfigCommand(tid)

	case "get-status":
		frame = sck.NewGetStatusCommand(tid)

	case "set-sensor":
		key, value, err := keyValue()
		if err != nil {
			return "", err
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", fmt.Errorf("set-sensor value %q is not a number", value)
		}
		frame = sck.NewSetSensorCommand(tid, key, v)

	case "set-input":
		key, value, err := keyValue()
		if err != nil {
			return "", err
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("set-input value %q is not an integer", value)
		}
		frame = sck.NewSetInputCommand(tid, key, v != 0)

	case "get-io":
		frame = sck.NewGetIOCommand(tid)

	default:
		return "", fmt.Errorf("unknown verb %q (see --help)", verb)
	}

	return sck.LineFromFrame(frame)
}

func runSend(cmd *cobra.Command, args []string) error {
	line, err := buildSendLine(args)
	if err != nil {
		return err
	}

	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Frigostat - Send Command\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", sendTimeout)
	fmt.Printf("TX: %s\n\n", line)

	if err := writeLine(conn, line); err != nil {
		fmt.Fprintf(os.Stderr, "Write error: %v\n", err)
		os.Exit(2)
	}

	lines := make(chan string, 16)
	errs := make(chan error, 1)
	go readLines(conn, lines, errs)

	deadline := time.After(time.Duration(sendTimeout) * time.Second)
	for {
		select {
		case rx := <-lines:
			rx = strings.TrimSpace(rx)
			if rx == "" || rx == line {
				// Blank traffic or our own echo on a looped-back wire
				continue
			}

			fmt.Printf("RX: %s\n", rx)
			if frame, marked, err := sck.ParseLine(rx); marked && err == nil {
				fmt.Printf("\n%s", sck.FormatFrame(frame))
			}
			os.Exit(0)

		case err := <-errs:
			fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
			os.Exit(2)

		case <-deadline:
			fmt.Fprintf(os.Stderr, "TIMEOUT: No reply received within %d seconds\n", sendTimeout)
			os.Exit(1)
		}
	}
}
