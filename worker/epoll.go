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
	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/wsched/errors"
)

// readinessMask is the event-kind-agnostic readiness bitmask the loop
// reports for a ready fd: some combination of readable/writable/error.
type readinessMask uint32

const (
	maskReadable readinessMask = 1 << iota
	maskWritable
	maskError
)

// loop is the event-loop collaborator: create, register (fd, mask),
// modify mask, deregister, wait. Built on Linux epoll in level-triggered
// mode, matching the reference scheduler's readiness semantics, where a
// redundant wakeup is harmless.
type loop struct {
	epfd int
}

func newLoop() (*loop, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, liberr.New(uint16(liberr.MinPkgWorker), "worker: epoll_create1 failed", err)
	}
	return &loop{epfd: fd}, nil
}

func epollEvents(m readinessMask) uint32 {
	var e uint32
	if m&maskReadable != 0 {
		e |= unix.EPOLLIN
	}
	if m&maskWritable != 0 {
		e |= unix.EPOLLOUT
	}
	return e
}

func (l *loop) add(fd int, m readinessMask) error {
	ev := unix.EpollEvent{Events: epollEvents(m), Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return liberr.New(uint16(liberr.MinPkgWorker), "worker: epoll_ctl add failed", err)
	}
	return nil
}

func (l *loop) modify(fd int, m readinessMask) error {
	ev := unix.EpollEvent{Events: epollEvents(m), Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return liberr.New(uint16(liberr.MinPkgWorker), "worker: epoll_ctl mod failed", err)
	}
	return nil
}

// remove deregisters fd. Deregistration must run before the socket close
// that always follows it, so the in-kernel event source is gone before
// the descriptor value can be reused by a subsequent accept.
func (l *loop) remove(fd int) error {
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil && err != unix.ENOENT && err != unix.EBADF {
		return liberr.New(uint16(liberr.MinPkgWorker), "worker: epoll_ctl del failed", err)
	}
	return nil
}

// event is one readiness notification: fd plus mask.
type event struct {
	fd   int
	mask readinessMask
}

// wait blocks up to timeoutMs (negative means forever) and returns the
// ready events. EINTR is retried transparently, matching the reference
// scheduler treating signal interruption as a non-event.
func (l *loop) wait(buf []unix.EpollEvent, timeoutMs int) ([]event, error) {
	for {
		n, err := unix.EpollWait(l.epfd, buf, timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, liberr.New(uint16(liberr.MinPkgWorker), "worker: epoll_wait failed", err)
		}

		out := make([]event, 0, n)
		for i := 0; i < n; i++ {
			m := readinessMask(0)
			if buf[i].Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
				m |= maskReadable
			}
			if buf[i].Events&unix.EPOLLOUT != 0 {
				m |= maskWritable
			}
			if buf[i].Events&(unix.EPOLLHUP|unix.EPOLLERR) != 0 {
				m |= maskError
			}
			out = append(out, event{fd: int(buf[i].Fd), mask: m})
		}
		return out, nil
	}
}

func (l *loop) close() error {
	return unix.Close(l.epfd)
}
