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

package balancer_test

import (
	libbal "github.com/sabouaram/wsched/balancer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeCounters struct {
	accepted, closed int64
}

func (f fakeCounters) Accepted() int64 { return f.accepted }
func (f fakeCounters) Closed() int64   { return f.closed }

var _ = Describe("Fair", func() {
	It("selects the worker with the fewest live connections", func() {
		f := libbal.Fair{ServerCapacity: 4}
		workers := []libbal.Counters{
			fakeCounters{accepted: 2, closed: 0}, // live 2
			fakeCounters{accepted: 0, closed: 0}, // live 0
		}

		idx, ok := f.Select(workers)
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(1))
	})

	It("breaks ties by lowest worker index", func() {
		f := libbal.Fair{ServerCapacity: 4}
		workers := []libbal.Counters{
			fakeCounters{accepted: 1, closed: 0},
			fakeCounters{accepted: 1, closed: 0},
		}

		idx, ok := f.Select(workers)
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(0))
	})

	It("refuses when the chosen worker is at its per-worker capacity share", func() {
		// W=2, server_capacity=4 → per-worker share is 2.
		f := libbal.Fair{ServerCapacity: 4}
		workers := []libbal.Counters{
			fakeCounters{accepted: 2, closed: 0}, // live 2, == share
			fakeCounters{accepted: 2, closed: 0}, // live 2, == share
		}

		_, ok := f.Select(workers)
		Expect(ok).To(BeFalse())
	})

	It("is deterministic given a fixed counter snapshot", func() {
		f := libbal.Fair{ServerCapacity: 4}
		workers := []libbal.Counters{
			fakeCounters{accepted: 2, closed: 0},
			fakeCounters{accepted: 0, closed: 0},
		}

		first, _ := f.Select(workers)
		second, _ := f.Select(workers)
		Expect(first).To(Equal(second))
	})

	It("reports no selection for an empty worker table", func() {
		f := libbal.Fair{ServerCapacity: 4}
		_, ok := f.Select(nil)
		Expect(ok).To(BeFalse())
	})
})
