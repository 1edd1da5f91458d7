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

package atomic_test

import (
	. "github.com/sabouaram/wsched/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Map[K]", func() {
	It("stores and loads by key", func() {
		m := NewMap[int]()
		m.Store(7, "fd-7")
		v, ok := m.Load(7)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("fd-7"))
	})

	It("reports absence for a missing key", func() {
		m := NewMap[int]()
		_, ok := m.Load(42)
		Expect(ok).To(BeFalse())
	})

	It("deletes a key that was never inserted without panicking", func() {
		m := NewMap[int]()
		Expect(func() { m.Delete(1) }).ToNot(Panic())
	})

	It("ranges over all stored entries", func() {
		m := NewMap[int]()
		m.Store(1, "a")
		m.Store(2, "b")

		seen := map[int]any{}
		m.Range(func(key int, value any) bool {
			seen[key] = value
			return true
		})

		Expect(seen).To(HaveLen(2))
		Expect(seen[1]).To(Equal("a"))
		Expect(seen[2]).To(Equal("b"))
	})

	It("loads and deletes atomically", func() {
		m := NewMap[int]()
		m.Store(9, "x")
		v, ok := m.LoadAndDelete(9)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("x"))

		_, ok = m.Load(9)
		Expect(ok).To(BeFalse())
	})
})
