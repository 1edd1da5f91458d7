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

// Package notify implements the supervisor-to-worker lifecycle pipe: a
// typed discriminant written at the supervisor side and decoded at the
// worker side, where the read end sits in the worker's own epoll set.
//
// The original scheduler wrote a raw 4-byte magic word down a pipe; this
// package tags the payload with a typed Signal at the decode boundary
// instead (see DESIGN.md), while keeping the same pipe-is-the-lock-free-
// primitive design.
package notify

import (
	"encoding/binary"
	"os"

	liberr "github.com/sabouaram/wsched/errors"
)

// Signal is the typed lifecycle discriminant carried over a Channel.
type Signal uint32

const (
	// SignalDeadbeef is a reserved ping/liveness signal; workers treat it
	// as a no-op.
	SignalDeadbeef Signal = 0xDEADBEEF

	// SignalFreeAll tells a worker to begin orderly teardown: drop every
	// live connection, free worker-scoped state, and exit its loop.
	SignalFreeAll Signal = 0xF6EEA11

	// SignalUnknown is returned for any payload that doesn't decode to a
	// signal recognized above; workers treat it as a no-op too.
	SignalUnknown Signal = 0
)

const wireSize = 4

// Channel is one supervisor→worker notification pipe. The supervisor
// writes through Send; the worker registers Fd() in its epoll set and
// calls Recv when it becomes readable.
type Channel struct {
	r *os.File
	w *os.File
}

// New opens a fresh OS pipe for one worker's notification channel.
func New() (*Channel, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, liberr.New(0, "notify: pipe creation failed", err)
	}
	return &Channel{r: r, w: w}, nil
}

// Fd returns the read end's file descriptor, for epoll registration.
func (c *Channel) Fd() int {
	return int(c.r.Fd())
}

// Send writes sig to the worker side. Safe to call from any goroutine;
// the pipe itself is the synchronization primitive.
func (c *Channel) Send(sig Signal) error {
	var buf [wireSize]byte
	binary.BigEndian.PutUint32(buf[:], uint32(sig))

	if _, err := c.w.Write(buf[:]); err != nil {
		return liberr.New(0, "notify: send failed", err)
	}
	return nil
}

// Recv reads one pending signal. Called by the owning worker once Fd()
// reports readable. Unknown or short reads decode to SignalUnknown.
func (c *Channel) Recv() (Signal, error) {
	var buf [wireSize]byte
	n, err := c.r.Read(buf[:])
	if err != nil {
		return SignalUnknown, liberr.New(0, "notify: recv failed", err)
	}
	if n < wireSize {
		return SignalUnknown, nil
	}

	switch sig := Signal(binary.BigEndian.Uint32(buf[:])); sig {
	case SignalDeadbeef, SignalFreeAll:
		return sig, nil
	default:
		return SignalUnknown, nil
	}
}

// Close releases both ends of the pipe.
func (c *Channel) Close() error {
	e := c.r.Close()
	if werr := c.w.Close(); werr != nil && e == nil {
		e = werr
	}
	if e != nil {
		return liberr.New(0, "notify: close failed", e)
	}
	return nil
}
