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

// Package session names the HTTP collaborator contract the scheduler
// treats as opaque: it may look a session up by fd, remove it by fd, and
// inspect two timing fields during the timeout sweep. Everything else —
// the request grammar, response generation — belongs to the collaborator,
// not to the scheduler.
package session

// ReadResult is the read-handler's return code.
type ReadResult int

const (
	ReadProgressed ReadResult = iota + 1
	ReadPeerClosed
	// ReadError is an IO-level failure: the connection is dropped with no
	// further write attempt.
	ReadError
	// ReadParseError is a parser-level failure (malformed request bytes
	// rather than a closed or broken socket): the collaborator gets one
	// Write call to flush a queued error response before the drop.
	ReadParseError
	ReadWouldBlock
)

// WriteResult is the write-handler's return code.
type WriteResult int

const (
	WriteDone WriteResult = iota
	WriteFlush
	WriteError
)

// Session is one connection's HTTP-layer state, opaque to the scheduler
// beyond the two timing fields it inspects during the sweep.
type Session interface {
	// Fd is the socket this session belongs to.
	Fd() int

	// InitTime is when the session was created, in Unix seconds.
	InitTime() int64

	// CounterConnections is how many requests this persistent
	// connection has already completed; 0 means this is the first
	// request and the sweep should use request_timeout rather than
	// keep_alive_timeout.
	CounterConnections() int64

	// Read is the read-handler contract: consume available bytes, advance
	// the parser, report progress. A parser error must still leave Write
	// callable once, for a queued error response, before the caller drops
	// the connection.
	Read() ReadResult

	// Write is the write-handler contract: drive the output channel.
	Write() WriteResult

	// KeepAlive reports whether, once Write drains, the connection
	// should be re-armed for another request instead of dropped.
	KeepAlive() bool

	// RequestComplete reports whether the parser has a complete request
	// ready to hand to Write.
	RequestComplete() bool

	// Reset prepares the session for a new request on the same
	// persistent connection (Writing → KeepAliveIdle → Reading).
	Reset()
}

// Store is the get/create/remove contract the scheduler uses to manage a
// session's lifetime; it never constructs a Session directly.
type Store interface {
	Get(fd int) (Session, bool)
	Create(fd int) Session
	Remove(fd int)

	// Range visits every live session, in no particular order, stopping
	// early if fn returns false. Used by the timeout sweep's second pass;
	// fn must not call back into the Store.
	Range(fn func(fd int, s Session) bool)
}
