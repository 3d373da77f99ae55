// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package uart provides line-oriented transports for controller channels.
//
// A controller owns two independent channels (monitor and IO) and polls each
// once per step. Transports never block and never surface I/O failures to
// the step loop: a broken serial port downgrades itself to an in-memory
// queue and the controller keeps running.
package uart

// Transport is a line-oriented, non-blocking channel endpoint.
type Transport interface {
	// ReadLine returns the next inbound line. ok is false when nothing is
	// pending. The call never blocks.
	ReadLine() (line string, ok bool)

	// WriteLine sends one outbound line. Implementations absorb transport
	// failures; WriteLine never panics and has no error to return.
	WriteLine(line string)
}
