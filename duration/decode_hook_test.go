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

package duration_test

import (
	"reflect"
	"time"

	libdur "github.com/sabouaram/wsched/duration"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ViperDecoderHook", func() {
	It("converts a string into a Duration", func() {
		hook := libdur.ViperDecoderHook()

		out, err := hook(reflect.TypeOf(""), reflect.TypeOf(libdur.Duration(0)), "2m")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal(libdur.ParseDuration(2 * time.Minute)))
	})

	It("passes through data whose target type is not Duration", func() {
		hook := libdur.ViperDecoderHook()

		out, err := hook(reflect.TypeOf(""), reflect.TypeOf(0), "2m")
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("2m"))
	})

	It("passes through non-string source data", func() {
		hook := libdur.ViperDecoderHook()

		out, err := hook(reflect.TypeOf(0), reflect.TypeOf(libdur.Duration(0)), 5)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal(5))
	})
})
