// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package uart

import (
	"strings"
	"sync"
)

// Queue is an in-memory Transport backed by rx and tx line queues. It is the
// wiring for tests and demos, and the fallback a failed Device degrades to.
// Two queues can be bridged with ConnectPeer to emulate a physical link.
type Queue struct {
	mu   sync.Mutex
	rx   []string
	tx   []string
	peer *Queue
}

// NewQueue creates an isolated queue transport. Until a peer is connected,
// written lines accumulate in the tx log and are never delivered anywhere.
func NewQueue() *Queue {
	return &Queue{}
}

// InjectRX queues a line as if the remote peer had transmitted it.
// Surrounding whitespace is stripped.
func (q *Queue) InjectRX(line string) {
	line = strings.TrimSpace(line)
	q.mu.Lock()
	q.rx = append(q.rx, line)
	q.mu.Unlock()
}

// ReadLine pops the oldest inbound line
func (q *Queue) ReadLine() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.rx) == 0 {
		return "", false
	}
	line := q.rx[0]
	q.rx = q.rx[1:]
	return line, true
}

// WriteLine records the stripped line in the tx log and, when a peer is
// connected, delivers it into the peer's rx queue. Writes never loop back
// into the writer's own rx queue.
func (q *Queue) WriteLine(line string) {
	line = strings.TrimSpace(line)
	q.mu.Lock()
	q.tx = append(q.tx, line)
	peer := q.peer
	q.mu.Unlock()

	if peer != nil {
		peer.InjectRX(line)
	}
}

// DrainTX returns and clears the tx log
func (q *Queue) DrainTX() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.tx
	q.tx = nil
	return out
}

// ConnectPeer bridges two queues as if a cable joined them: each side's
// writes become the other side's reads. One call wires both directions.
func (q *Queue) ConnectPeer(peer *Queue) {
	q.setPeer(peer)
	peer.setPeer(q)
}

func (q *Queue) setPeer(peer *Queue) {
	q.mu.Lock()
	q.peer = peer
	q.mu.Unlock()
}
