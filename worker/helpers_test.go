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
	"os"
	"time"

	"golang.org/x/sys/unix"

	. "github.com/onsi/gomega"

	libdur "github.com/sabouaram/wsched/duration"
	libplug "github.com/sabouaram/wsched/plugin"
	"github.com/sabouaram/wsched/session/httpsession"
)

// socketpair returns a connected fd pair: the first is meant to be handed
// to the Worker under test, the second kept by the test as the peer.
func socketpair() (fd int, peer *os.File) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	Expect(err).ToNot(HaveOccurred())
	return fds[0], os.NewFile(uintptr(fds[1]), "peer")
}

// newTestWorker builds a Worker with a real epoll loop and a real
// httpsession.Store, clock-controlled via a settable now.
func newTestWorker(hooks libplug.Hooks, requestTimeout, keepAliveTimeout time.Duration) *Worker {
	w := New(Config{
		Index:            0,
		RequestTimeout:   libdur.ParseDuration(requestTimeout),
		KeepAliveTimeout: libdur.ParseDuration(keepAliveTimeout),
		Hooks:            hooks,
		Sessions:         httpsession.NewStore(httpsession.Config{}, func() int64 { return time.Now().Unix() }),
	})

	lp, err := newLoop()
	Expect(err).ToNot(HaveOccurred())
	w.lp = lp

	return w
}
