/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package conn holds the scheduler's per-connection bookkeeping object
// (Record) and the per-worker ordered index keyed by socket descriptor
// (Index), backed by github.com/google/btree for the same O(log n)
// asymptotics as a red-black tree.
package conn

import (
	"time"

	"github.com/google/uuid"
)

// Status is where a connection sits in the scheduler's state machine.
type Status uint8

const (
	// StatusPending is accepted, awaiting the first request bytes.
	StatusPending Status = iota
	// StatusProcessing covers Reading and Writing: bytes are being
	// exchanged with the peer.
	StatusProcessing
)

// Record is the scheduler's per-connection bookkeeping object. It is
// reachable by fd in exactly one worker's Index while live, mutated only
// by its owning worker, and freed only after the fd is deregistered from
// the event loop and closed.
type Record struct {
	// Fd is the socket descriptor; Index keys on this value.
	Fd int

	// Status is the connection's current scheduler-visible state.
	Status Status

	// Arrival is when the connection was accepted, used by the
	// incomplete-request pass of the timeout sweep.
	Arrival time.Time

	// ID is a log-correlation identifier. It plays no role in lookup or
	// any invariant — a supplemental field absent from the reference
	// implementation.
	ID uuid.UUID

	// Incomplete is true until a session exists for this connection (the
	// worker clears it on the first readable event): the timeout sweep's
	// incomplete-request pass
	// consults this directly instead of keeping a second, worker-owned
	// set of fds in sync with the index.
	Incomplete bool
}

// NewRecord builds a freshly-accepted Record in StatusPending.
func NewRecord(fd int, now time.Time) *Record {
	return &Record{
		Fd:         fd,
		Status:     StatusPending,
		Arrival:    now,
		ID:         uuid.New(),
		Incomplete: true,
	}
}
