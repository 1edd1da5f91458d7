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

package worker

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	libconn "github.com/sabouaram/wsched/conn"
	liberr "github.com/sabouaram/wsched/errors"
	libnotify "github.com/sabouaram/wsched/notify"
	libplug "github.com/sabouaram/wsched/plugin"
	libsess "github.com/sabouaram/wsched/session"
)

// Run enters the event loop and does not return until FREE_ALL tears the
// worker down or wait reports a fatal error. It must be called from the
// goroutine Bootstrap locked to an OS thread; every connection record this
// Worker owns is only ever touched from here.
func (w *Worker) Run() error {
	if w.lp == nil {
		return liberr.New(uint16(liberr.MinPkgWorker), "worker: Run called before Bootstrap")
	}

	buf := make([]unix.EpollEvent, 128)
	timeoutMs := int(w.tick / time.Millisecond)
	if timeoutMs <= 0 {
		timeoutMs = 1000
	}

	for !w.freeAll.Load() {
		events, err := w.lp.wait(buf, timeoutMs)
		if err != nil {
			return err
		}

		for _, ev := range events {
			if w.notify != nil && ev.fd == w.notify.Fd() {
				w.handleNotify()
				continue
			}
			if w.listeners != nil {
				if _, isListener := w.listeners[ev.fd]; isListener {
					w.acceptFromListener(ev.fd)
					continue
				}
			}
			w.handleConnEvent(ev.fd, ev.mask)
		}

		w.drainAndAdmit()
		w.sweepTimeouts(w.now())
	}

	return nil
}

// handleNotify decodes one pending signal from the supervisor's
// notification pipe.
func (w *Worker) handleNotify() {
	sig, err := w.notify.Recv()
	if err != nil {
		w.log.WithError(err).Warn("worker: notify recv failed")
		return
	}

	switch sig {
	case libnotify.SignalFreeAll:
		w.teardown()
	case libnotify.SignalDeadbeef, libnotify.SignalUnknown:
		// no-op.
	}
}

// teardown drops every live connection and marks the loop for exit,
// implementing FREE_ALL: any connection, in any state, is dropped once
// the supervisor broadcasts this signal.
func (w *Worker) teardown() {
	var fds []int
	w.index.Walk(func(rec *libconn.Record) bool {
		fds = append(fds, rec.Fd)
		return true
	})

	for _, fd := range fds {
		w.drop(fd, libplug.ReasonFreeAll)
	}

	w.freeAll.Store(true)
}

// drainAndAdmit processes fds handed off via Accept since the last loop
// iteration, running Stage10 and registering each admitted fd — the
// cross-goroutine hand-off boundary named in worker.go's doc comment.
func (w *Worker) drainAndAdmit() {
	for _, fd := range w.drainAcceptQueue() {
		w.admit(fd)
	}
}

// acceptFromListener drains one of this worker's own kernel-balanced
// listening sockets, admitting every connection the kernel handed to this
// worker's share of the SO_REUSEPORT group until accept4 reports
// would-block.
func (w *Worker) acceptFromListener(lfd int) {
	for {
		nfd, _, err := unix.Accept4(lfd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
		if err != nil {
			if err != unix.EAGAIN && err != unix.EWOULDBLOCK {
				w.log.WithError(err).Warn("worker: accept4 on own listener failed")
			}
			return
		}
		w.admit(nfd)
	}
}

// admit runs Stage10 and, absent a refusal, inserts a new Record and
// registers fd for readability.
func (w *Worker) admit(fd int) {
	if w.hooks.Stage10(fd) == libplug.Refuse {
		_ = unix.Close(fd)
		w.overCapacity.Add(1)
		return
	}

	rec := libconn.NewRecord(fd, w.now())
	if err := w.index.Insert(rec); err != nil {
		// A duplicate fd in the index means some earlier drop failed to
		// erase it before the descriptor got reused: an internal
		// invariant violation, so the process aborts rather than
		// continue with a corrupted index.
		panic(fmt.Sprintf("worker %d: %v", w.idx, err))
	}

	if err := w.lp.add(fd, maskReadable); err != nil {
		w.log.WithError(err).Warn("worker: epoll register failed for accepted fd")
		w.index.Erase(fd)
		_ = unix.Close(fd)
		return
	}

	w.accepted.Add(1)
}

// handleConnEvent routes one ready connection fd through the read/write
// state machine.
func (w *Worker) handleConnEvent(fd int, mask readinessMask) {
	rec, ok := w.index.Lookup(fd)
	if !ok {
		// Stale event for an already-dropped fd; harmless under
		// level-triggered epoll, where a redundant wakeup costs nothing
		// beyond this lookup.
		return
	}

	if mask&maskError != 0 {
		w.drop(fd, libplug.ReasonError)
		return
	}

	if mask&maskReadable != 0 {
		w.handleReadable(fd, rec)
		// handleReadable may have dropped fd and erased rec; the writable
		// branch below looks fd up again before using rec.
	}

	if mask&maskWritable != 0 {
		if _, stillLive := w.index.Lookup(fd); stillLive {
			w.handleWritable(fd, rec)
		}
	}
}

func (w *Worker) handleReadable(fd int, rec *libconn.Record) {
	sess, ok := w.sessions.Get(fd)
	if !ok {
		sess = w.sessions.Create(fd)
	}
	// A session now exists for this fd; from here on its deadline is
	// tracked by the session-based sweep pass, not the incomplete-request
	// pass.
	rec.Incomplete = false

	rec.Status = libconn.StatusProcessing

	switch sess.Read() {
	case libsess.ReadProgressed:
		if sess.RequestComplete() {
			if err := w.lp.modify(fd, maskWritable); err != nil {
				w.log.WithError(err).Warn("worker: epoll modify to writable failed")
			}
		}
	case libsess.ReadPeerClosed:
		w.drop(fd, libplug.ReasonPeerClose)
	case libsess.ReadError:
		w.drop(fd, libplug.ReasonError)
	case libsess.ReadParseError:
		// The collaborator may have queued an error response body (e.g.
		// a malformed request line); give it one flush attempt before
		// the socket closes, same as any other drop.
		_ = sess.Write()
		w.drop(fd, libplug.ReasonError)
	case libsess.ReadWouldBlock:
		// remain in Reading, already registered readable.
	}
}

func (w *Worker) handleWritable(fd int, rec *libconn.Record) {
	sess, ok := w.sessions.Get(fd)
	if !ok {
		return
	}

	switch sess.Write() {
	case libsess.WriteDone:
		if sess.KeepAlive() {
			sess.Reset()
			rec.Status = libconn.StatusPending
			if err := w.lp.modify(fd, maskReadable); err != nil {
				w.log.WithError(err).Warn("worker: epoll modify to readable failed")
			}
		} else {
			w.drop(fd, libplug.ReasonPeerClose)
		}
	case libsess.WriteFlush:
		// remain in Writing, already registered writable.
	case libsess.WriteError:
		w.drop(fd, libplug.ReasonError)
	}
}
