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
	"encoding/json"
	"time"

	libdur "github.com/sabouaram/wsched/duration"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Duration", func() {
	It("parses a plain Go duration string", func() {
		d, err := libdur.Parse("30s")
		Expect(err).ToNot(HaveOccurred())
		Expect(d.Time()).To(Equal(30 * time.Second))
	})

	It("rejects an invalid duration string", func() {
		_, err := libdur.Parse("not-a-duration")
		Expect(err).To(HaveOccurred())
	})

	It("builds durations from the Seconds/Minutes/Hours helpers", func() {
		Expect(libdur.Seconds(90).Time()).To(Equal(90 * time.Second))
		Expect(libdur.Minutes(2).Time()).To(Equal(2 * time.Minute))
		Expect(libdur.Hours(1).Time()).To(Equal(time.Hour))
	})

	It("wraps a time.Duration unmodified", func() {
		Expect(libdur.ParseDuration(5 * time.Minute).Time()).To(Equal(5 * time.Minute))
	})

	It("round-trips through JSON", func() {
		d := libdur.Seconds(45)

		b, err := json.Marshal(d)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(b)).To(Equal(`"45s"`))

		var out libdur.Duration
		Expect(json.Unmarshal(b, &out)).To(Succeed())
		Expect(out.Time()).To(Equal(45 * time.Second))
	})

	It("reports zero as the no-timeout sentinel", func() {
		var d libdur.Duration
		Expect(d.IsZero()).To(BeTrue())
		Expect(libdur.Seconds(1).IsZero()).To(BeFalse())
	})

	It("clamps ParseFloat64 to the int64 range", func() {
		Expect(int64(libdur.ParseFloat64(1e30))).To(Equal(int64(9223372036854775807)))
	})
})
