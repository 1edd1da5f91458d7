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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var _ = Describe("RegisterFlags", func() {
	It("binds every configuration key as a persistent flag", func() {
		cmd := &cobra.Command{Use: "schedulerd"}
		v := viper.New()

		Expect(libcfg.RegisterFlags(cmd, v)).To(Succeed())

		Expect(cmd.PersistentFlags().Lookup(libcfg.KeyWorkers)).ToNot(BeNil())
		Expect(cmd.PersistentFlags().Lookup(libcfg.KeySchedulerMode)).ToNot(BeNil())
	})

	It("lets a flag override the loaded config", func() {
		cmd := &cobra.Command{Use: "schedulerd"}
		v := viper.New()
		Expect(libcfg.RegisterFlags(cmd, v)).To(Succeed())

		Expect(cmd.PersistentFlags().Set(libcfg.KeyWorkers, "8")).To(Succeed())

		cfg, err := libcfg.Load(v)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Workers).To(Equal(8))
	})
})
