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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libconn "github.com/sabouaram/wsched/conn"
	libplug "github.com/sabouaram/wsched/plugin"
)

var _ = Describe("sweepTimeouts", func() {
	It("drops an fd on the incomplete list once arrival_time + request_timeout elapses", func() {
		w := newTestWorker(libplug.Default(), 5*time.Second, 15*time.Second)
		defer w.lp.close()

		fd, peer := socketpair()
		defer peer.Close()

		arrival := time.Now().Add(-6 * time.Second)
		rec := libconn.NewRecord(fd, arrival)
		Expect(w.index.Insert(rec)).To(Succeed())
		Expect(w.lp.add(fd, maskReadable)).To(Succeed())

		w.sweepTimeouts(time.Now())

		_, ok := w.index.Lookup(fd)
		Expect(ok).To(BeFalse())
		Expect(w.Closed()).To(Equal(int64(1)))
	})

	It("leaves an incomplete fd alone before its deadline", func() {
		w := newTestWorker(libplug.Default(), 5*time.Second, 15*time.Second)
		defer w.lp.close()

		fd, peer := socketpair()
		defer peer.Close()

		rec := libconn.NewRecord(fd, time.Now())
		Expect(w.index.Insert(rec)).To(Succeed())
		Expect(w.lp.add(fd, maskReadable)).To(Succeed())

		w.sweepTimeouts(time.Now())

		_, ok := w.index.Lookup(fd)
		Expect(ok).To(BeTrue())
		Expect(w.Closed()).To(Equal(int64(0)))

		w.drop(fd, libplug.ReasonFreeAll)
	})

	It("drops a first-request session past request_timeout and a repeat session past keep_alive_timeout", func() {
		w := newTestWorker(libplug.Default(), 5*time.Second, 15*time.Second)
		defer w.lp.close()

		fdFirst, peerFirst := socketpair()
		defer peerFirst.Close()
		fdRepeat, peerRepeat := socketpair()
		defer peerRepeat.Close()

		for _, fd := range []int{fdFirst, fdRepeat} {
			rec := libconn.NewRecord(fd, time.Now())
			rec.Incomplete = false // as handleReadable leaves it once a session exists
			Expect(w.index.Insert(rec)).To(Succeed())
			Expect(w.lp.add(fd, maskReadable)).To(Succeed())
		}

		sessFirst := w.sessions.Create(fdFirst)
		sessRepeat := w.sessions.Create(fdRepeat)
		sessRepeat.Reset() // advances CounterConnections to 1

		now := time.Unix(sessFirst.InitTime(), 0).Add(6 * time.Second)
		w.sweepTimeouts(now) // first-request fd past its 5s request_timeout...

		_, ok := w.index.Lookup(fdFirst)
		Expect(ok).To(BeFalse())
		_, ok = w.index.Lookup(fdRepeat)
		Expect(ok).To(BeTrue()) // ...but not yet past its 15s keep_alive_timeout

		later := time.Unix(sessRepeat.InitTime(), 0).Add(16 * time.Second)
		w.sweepTimeouts(later)

		_, ok = w.index.Lookup(fdRepeat)
		Expect(ok).To(BeFalse())
		Expect(w.Closed()).To(Equal(int64(2)))
	})
})
