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

package balancer

import (
	"syscall"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/wsched/errors"
)

// MarkReusePort sets SO_REUSEPORT on a worker's own listening socket, so
// the kernel distributes accepts across every worker bound to the same
// address/port. Once set, no balancer code path runs per connection; each
// worker's own listener hands it accepts directly.
func MarkReusePort(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		return liberr.New(0, "balancer: SO_REUSEPORT failed", err)
	}
	return nil
}

// ListenControl is wired into net.ListenConfig.Control so a listener
// created through the standard library still gets SO_REUSEPORT applied
// before bind, for the kernel-balanced scheduler mode.
func ListenControl(_ string, _ string, c syscall.RawConn) error {
	var setErr error
	err := c.Control(func(fd uintptr) {
		setErr = MarkReusePort(int(fd))
	})
	if err != nil {
		return liberr.New(0, "balancer: listen control failed", err)
	}
	return setErr
}
