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

// Package httpsession is a minimal, concrete session.Store good enough to
// drive the scheduler's state machine end-to-end with real HTTP traffic.
// It builds on net/http's own request-line primitives (bufio +
// http.ReadRequest) rather than reimplementing a parser — the HTTP
// grammar itself is out of scope.
package httpsession

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/net/http2"

	libsess "github.com/sabouaram/wsched/session"
)

// Config exposes the HTTP/2-aware server-side knobs a real deployment
// would wire through to connections this session type serves; the bundled
// responder itself stays HTTP/1.1-only (TLS/ALPN negotiation is a
// Non-goal), but accepting an *http2.Server here keeps the configuration
// surface realistic for a collaborator meant to be replaced.
type Config struct {
	HTTP2 *http2.Server
}

type entry struct {
	fd        int
	conn      *os.File
	reader    *bufio.Reader
	req       *http.Request
	body      []byte
	initTime  int64
	counter   int64
	keepAlive bool
	complete  bool
}

func (e *entry) Fd() int                   { return e.fd }
func (e *entry) InitTime() int64           { return e.initTime }
func (e *entry) CounterConnections() int64 { return e.counter }
func (e *entry) KeepAlive() bool           { return e.keepAlive }
func (e *entry) RequestComplete() bool     { return e.complete }

func (e *entry) Read() libsess.ReadResult {
	req, err := http.ReadRequest(e.reader)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return libsess.ReadPeerClosed
		}
		// http.ReadRequest returned a non-EOF error: the peer sent bytes
		// that don't parse as a request line. Queue a canned error body
		// so the worker can flush it before dropping the connection.
		e.body = badRequest()
		e.keepAlive = false
		return libsess.ReadParseError
	}

	e.req = req
	e.complete = true
	e.keepAlive = req.Header.Get("Connection") != "close" && req.ProtoAtLeast(1, 1)
	e.body = canned(req)

	return libsess.ReadProgressed
}

func (e *entry) Write() libsess.WriteResult {
	if len(e.body) == 0 {
		return libsess.WriteDone
	}

	n, err := e.conn.Write(e.body)
	if err != nil {
		return libsess.WriteError
	}

	e.body = e.body[n:]
	if len(e.body) > 0 {
		return libsess.WriteFlush
	}
	return libsess.WriteDone
}

func (e *entry) Reset() {
	e.req = nil
	e.body = nil
	e.complete = false
	e.counter++
}

func canned(req *http.Request) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 200 OK\r\nContent-Length: 0\r\nConnection: keep-alive\r\n\r\n")
	_ = req
	return buf.Bytes()
}

// badRequest is the queued error response a malformed request line gets
// flushed before the connection drops.
func badRequest() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 400 Bad Request\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
	return buf.Bytes()
}

// Store is a concrete session.Store keyed by fd, backed by *os.File so the
// same descriptor the worker's epoll loop watches can be read/written
// through ordinary blocking-free I/O primitives.
type Store struct {
	cfg Config

	mu sync.Mutex
	m  map[int]*entry

	now func() int64
}

// NewStore returns an empty Store. now defaults to a real wall-clock
// source if nil.
func NewStore(cfg Config, now func() int64) *Store {
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	return &Store{cfg: cfg, m: make(map[int]*entry), now: now}
}

func (s *Store) Get(fd int) (libsess.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[fd]
	if !ok {
		return nil, false
	}
	return e, true
}

func (s *Store) Create(fd int) libsess.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := os.NewFile(uintptr(fd), fmt.Sprintf("conn-%d", fd))
	// The scheduler, not *os.File's finalizer, owns closing this fd —
	// worker.drop closes it explicitly as the last step of its own
	// teardown order.
	runtime.SetFinalizer(f, nil)
	e := &entry{
		fd:       fd,
		conn:     f,
		reader:   bufio.NewReader(f),
		initTime: s.now(),
	}
	s.m[fd] = e
	return e
}

func (s *Store) Remove(fd int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, fd)
}

// Range visits every live session. A snapshot of the map is taken under
// the lock so fn may safely call Remove on the fd it was just given.
func (s *Store) Range(fn func(fd int, sess libsess.Session) bool) {
	s.mu.Lock()
	snapshot := make([]*entry, 0, len(s.m))
	for _, e := range s.m {
		snapshot = append(snapshot, e)
	}
	s.mu.Unlock()

	for _, e := range snapshot {
		if !fn(e.fd, e) {
			return
		}
	}
}
