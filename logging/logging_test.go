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

package logging_test

import (
	"bytes"
	"encoding/json"

	liblog "github.com/sabouaram/wsched/logging"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

var _ = Describe("Fields", func() {
	It("Add returns a new set, leaving the original untouched", func() {
		base := liblog.NewFields().Add("a", 1)
		derived := base.Add("b", 2)

		Expect(base).To(HaveLen(1))
		Expect(derived).To(HaveLen(2))
	})

	It("Merge favors the other set on key collision", func() {
		a := liblog.NewFields().Add("x", 1)
		b := liblog.NewFields().Add("x", 2)

		Expect(a.Merge(b)["x"]).To(Equal(2))
	})

	It("Logrus converts to a logrus.Fields value", func() {
		f := liblog.NewFields().Add("k", "v")
		Expect(f.Logrus()).To(Equal(logrus.Fields{"k": "v"}))
	})
})

var _ = Describe("New", func() {
	It("falls back to InfoLevel on an unparseable level", func() {
		l := liblog.New(liblog.Config{Level: "not-a-level"})
		Expect(l.GetLevel()).To(Equal(logrus.InfoLevel))
	})

	It("honors an explicit level", func() {
		l := liblog.New(liblog.Config{Level: "warn"})
		Expect(l.GetLevel()).To(Equal(logrus.WarnLevel))
	})

	It("emits JSON when configured", func() {
		buf := &bytes.Buffer{}
		l := liblog.New(liblog.Config{Level: "info", JSON: true, Output: buf})
		l.Info("hello")

		var decoded map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded["msg"]).To(Equal("hello"))
	})
})

var _ = Describe("WithWorker and WithConn", func() {
	It("attaches worker_idx and fd fields", func() {
		buf := &bytes.Buffer{}
		l := liblog.New(liblog.Config{Level: "info", JSON: true, Output: buf})

		entry := liblog.WithConn(liblog.WithWorker(l, 3), 42)
		entry.Info("accepted")

		var decoded map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded["worker_idx"]).To(Equal(float64(3)))
		Expect(decoded["fd"]).To(Equal(float64(42)))
	})
})
