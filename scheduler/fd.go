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

package scheduler

import (
	"syscall"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/wsched/errors"
)

// dupListenerFd extracts an independent, non-blocking copy of conn's
// underlying fd, so the worker or listener set can own it after the
// caller's net.Conn/net.Listener value goes out of scope and is closed.
func dupListenerFd(conn syscall.Conn) (int, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return 0, liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: SyscallConn failed", err)
	}

	var fd int
	var dupErr error
	ctrlErr := raw.Control(func(p uintptr) {
		fd, dupErr = unix.Dup(int(p))
	})
	if ctrlErr != nil {
		return 0, liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: fd control failed", ctrlErr)
	}
	if dupErr != nil {
		return 0, liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: fd dup failed", dupErr)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return 0, liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: set nonblocking failed", err)
	}

	return fd, nil
}

func closeFd(fd int) error {
	return unix.Close(fd)
}
