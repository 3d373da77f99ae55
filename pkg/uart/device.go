// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uart

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// serialPort is the slice of serial.Port the Device actually uses. Tests
// substitute a fake; production code passes the real port from serial.Open.
type serialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Device is a Transport backed by a physical serial port.
//
// Lines are newline-terminated on the wire. Because half-duplex UART wiring
// echoes transmitted bytes back to the sender, the Device keeps a FIFO of
// lines it just wrote and silently consumes the first inbound occurrence of
// each. On any read or write failure the Device closes the port and degrades
// to an in-memory Queue so the caller's poll loop keeps running.
//
// A Device is confined to a single goroutine; it is not safe for concurrent
// use.
type Device struct {
	name     string
	port     serialPort
	log      *zap.Logger
	readBuf  [256]byte
	buf      []byte
	pending  []string
	echo     []string
	fallback *Queue
}

// Open opens the named serial port at the given baud rate (8 data bits, no
// parity, one stop bit) and wraps it in a Device. Reads are polled with a
// short timeout so ReadLine never blocks. A nil logger disables logging.
func Open(portName string, baud int, log *zap.Logger) (*Device, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", portName, err)
	}
	if err := port.SetReadTimeout(time.Millisecond); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %v", portName, err)
	}

	return newDeviceWithPort(portName, port, log), nil
}

func newDeviceWithPort(name string, port serialPort, log *zap.Logger) *Device {
	if log == nil {
		log = zap.NewNop()
	}
	return &Device{
		name:     name,
		port:     port,
		log:      log,
		fallback: NewQueue(),
	}
}

// ReadLine returns the next inbound line that is not a suppressed echo.
// ok is false when the wire is quiet. After a port failure the Device reads
// from its fallback queue instead.
func (d *Device) ReadLine() (string, bool) {
	if d.port == nil {
		return d.fallback.ReadLine()
	}

	for {
		if line, ok := d.nextPending(); ok {
			return line, true
		}

		n, err := d.port.Read(d.readBuf[:])
		if err != nil {
			d.fail("read", err)
			return d.fallback.ReadLine()
		}
		if n == 0 {
			// Read timeout: nothing on the wire right now.
			return "", false
		}
		d.buf = append(d.buf, d.readBuf[:n]...)
		d.splitLines()
	}
}

// WriteLine transmits one line, newline-terminated, and records it in the
// echo FIFO. After a port failure the line goes to the fallback queue.
func (d *Device) WriteLine(line string) {
	line = strings.TrimSpace(line)
	if d.port == nil {
		d.fallback.WriteLine(line)
		return
	}

	if _, err := d.port.Write([]byte(line + "\n")); err != nil {
		d.fail("write", err)
		d.fallback.WriteLine(line)
		return
	}
	d.echo = append(d.echo, line)
}

// InjectRX queues a line as if it had arrived on the wire. Injected lines
// join the inbound queue and are subject to echo suppression like wire data.
func (d *Device) InjectRX(line string) {
	line = strings.TrimSpace(line)
	if d.port == nil {
		d.fallback.InjectRX(line)
		return
	}
	d.pending = append(d.pending, line)
}

// Close releases the port. It is idempotent and always succeeds; a close
// error from the driver is logged and dropped.
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	if err := d.port.Close(); err != nil {
		d.log.Warn("serial port close failed",
			zap.String("port", d.name),
			zap.Error(err))
	}
	d.port = nil
	return nil
}

// nextPending pops buffered lines, consuming any that match the head of the
// echo FIFO, until a genuine inbound line or nothing remains.
func (d *Device) nextPending() (string, bool) {
	for len(d.pending) > 0 {
		line := d.pending[0]
		d.pending = d.pending[1:]
		if len(d.echo) > 0 && d.echo[0] == line {
			d.echo = d.echo[1:]
			continue
		}
		return line, true
	}
	return "", false
}

// splitLines moves complete newline-terminated lines from the byte buffer to
// the pending queue. CR and surrounding whitespace are trimmed; blank lines
// are dropped. A trailing partial line stays buffered for the next read.
func (d *Device) splitLines() {
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			return
		}
		line := strings.TrimSpace(string(d.buf[:i]))
		d.buf = d.buf[i+1:]
		if line != "" {
			d.pending = append(d.pending, line)
		}
	}
}

// fail closes the port and switches the Device to its fallback queue. Echo
// and receive state tied to the dead port is discarded.
func (d *Device) fail(op string, err error) {
	d.log.Warn("serial port failed, downgrading to in-memory queue",
		zap.String("port", d.name),
		zap.String("op", op),
		zap.Error(err))
	_ = d.port.Close()
	d.port = nil
	d.buf = nil
	d.pending = nil
	d.echo = nil
}
