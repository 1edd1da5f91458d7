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

package scheduler_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libconf "github.com/sabouaram/wsched/config"
	libdur "github.com/sabouaram/wsched/duration"
	libmet "github.com/sabouaram/wsched/metrics"
	libplug "github.com/sabouaram/wsched/plugin"
	"github.com/sabouaram/wsched/scheduler"
	"github.com/sabouaram/wsched/session/httpsession"
)

func waitForListener(s *scheduler.Supervisor) string {
	var addr string
	Eventually(func() string {
		addrs := s.ListenAddrs()
		if len(addrs) == 0 {
			return ""
		}
		addr = addrs[0].String()
		return addr
	}, time.Second).ShouldNot(BeEmpty())
	return addr
}

var _ = Describe("Supervisor", func() {
	It("serves a request end-to-end in fair mode and shuts down cleanly on context cancel", func() {
		cfg := libconf.Config{
			Workers:          2,
			ServerCapacity:   8,
			Timeout:          libdur.Seconds(5),
			KeepAliveTimeout: libdur.Seconds(5),
			SchedulerMode:    libconf.ModeFair,
			ListenAddresses:  []string{"127.0.0.1:0"},
		}

		sessions := httpsession.NewStore(httpsession.Config{}, func() int64 { return time.Now().Unix() })
		sup := scheduler.New(cfg, libplug.Default(), sessions, nil, libmet.NewRegistry())

		ctx, cancel := context.WithCancel(context.Background())
		runDone := make(chan error, 1)
		go func() { runDone <- sup.Run(ctx) }()

		addr := waitForListener(sup)

		conn, err := net.Dial("tcp4", addr)
		Expect(err).ToNot(HaveOccurred())

		req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(req.Write(conn)).To(Succeed())

		resp, err := http.ReadResponse(bufio.NewReader(conn), req)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		_ = conn.Close()

		cancel()
		Eventually(runDone, 3*time.Second).Should(Receive(BeNil()))
	})

	It("refuses connections once every worker is at capacity", func() {
		cfg := libconf.Config{
			Workers:          1,
			ServerCapacity:   1,
			Timeout:          libdur.Seconds(5),
			KeepAliveTimeout: libdur.Seconds(5),
			SchedulerMode:    libconf.ModeFair,
			ListenAddresses:  []string{"127.0.0.1:0"},
		}

		sessions := httpsession.NewStore(httpsession.Config{}, func() int64 { return time.Now().Unix() })
		sup := scheduler.New(cfg, libplug.Default(), sessions, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		runDone := make(chan error, 1)
		go func() { runDone <- sup.Run(ctx) }()

		addr := waitForListener(sup)

		// First connection fills the single worker's one-connection share;
		// keep it open so the second dial is refused rather than admitted.
		first, err := net.Dial("tcp4", addr)
		Expect(err).ToNot(HaveOccurred())
		defer first.Close()

		Eventually(func() bool {
			second, derr := net.Dial("tcp4", addr)
			if derr != nil {
				return false
			}
			defer second.Close()
			buf := make([]byte, 1)
			_ = second.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
			_, rerr := second.Read(buf)
			return errors.Is(rerr, io.EOF) // refused connections see the peer close immediately
		}, 3*time.Second).Should(BeTrue())

		cancel()
		Eventually(runDone, 3*time.Second).Should(Receive())
	})
})
