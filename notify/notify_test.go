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

package notify_test

import (
	libntf "github.com/sabouaram/wsched/notify"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Channel", func() {
	It("round-trips the FREE_ALL signal", func() {
		c, err := libntf.New()
		Expect(err).ToNot(HaveOccurred())
		defer c.Close()

		Expect(c.Send(libntf.SignalFreeAll)).To(Succeed())
		sig, err := c.Recv()
		Expect(err).ToNot(HaveOccurred())
		Expect(sig).To(Equal(libntf.SignalFreeAll))
	})

	It("round-trips the DEADBEEF ping signal", func() {
		c, err := libntf.New()
		Expect(err).ToNot(HaveOccurred())
		defer c.Close()

		Expect(c.Send(libntf.SignalDeadbeef)).To(Succeed())
		sig, err := c.Recv()
		Expect(err).ToNot(HaveOccurred())
		Expect(sig).To(Equal(libntf.SignalDeadbeef))
	})

	It("exposes a valid read-end fd for epoll registration", func() {
		c, err := libntf.New()
		Expect(err).ToNot(HaveOccurred())
		defer c.Close()

		Expect(c.Fd()).To(BeNumerically(">=", 0))
	})

	It("closes both ends without error", func() {
		c, err := libntf.New()
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Close()).To(Succeed())
	})
})
