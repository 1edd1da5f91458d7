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

package config_test

import (
	libcfg "github.com/sabouaram/wsched/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
)

var _ = Describe("Default", func() {
	It("passes its own Validate", func() {
		Expect(libcfg.Default().Validate()).To(Succeed())
	})
})

var _ = Describe("Validate", func() {
	It("rejects zero workers", func() {
		c := libcfg.Default()
		c.Workers = 0
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects capacity below worker count", func() {
		c := libcfg.Default()
		c.Workers = 10
		c.ServerCapacity = 4
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects an unknown scheduler mode", func() {
		c := libcfg.Default()
		c.SchedulerMode = "bogus"
		Expect(c.Validate()).To(HaveOccurred())
	})

	It("rejects an empty listen address list", func() {
		c := libcfg.Default()
		c.ListenAddresses = nil
		Expect(c.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("PerWorkerShare", func() {
	It("divides capacity evenly across workers", func() {
		c := libcfg.Default()
		c.Workers = 4
		c.ServerCapacity = 256
		Expect(c.PerWorkerShare()).To(Equal(int64(64)))
	})
})

var _ = Describe("Load", func() {
	It("applies defaults when the viper instance carries no keys", func() {
		v := viper.New()
		cfg, err := libcfg.Load(v)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg).To(Equal(libcfg.Default()))
	})

	It("parses a string timeout into a Duration", func() {
		v := viper.New()
		v.Set(libcfg.KeyTimeout, "30s")

		cfg, err := libcfg.Load(v)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Timeout.Time().Seconds()).To(Equal(30.0))
	})

	It("propagates validation failures", func() {
		v := viper.New()
		v.Set(libcfg.KeyWorkers, 0)

		_, err := libcfg.Load(v)
		Expect(err).To(HaveOccurred())
	})
})
