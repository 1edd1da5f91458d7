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

package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libdur "github.com/sabouaram/wsched/duration"
)

// Load reads the configuration out of v, applying Default() for any key v
// does not carry, and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	v.SetDefault(KeyWorkers, cfg.Workers)
	v.SetDefault(KeyServerCapacity, cfg.ServerCapacity)
	v.SetDefault(KeyTimeout, cfg.Timeout.String())
	v.SetDefault(KeyKeepAliveTimeout, cfg.KeepAliveTimeout.String())
	v.SetDefault(KeySchedulerMode, string(cfg.SchedulerMode))
	v.SetDefault(KeyListenAddresses, cfg.ListenAddresses)

	hook := viper.DecoderConfigOption(func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			libdur.ViperDecoderHook(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})

	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// RegisterFlags exposes the configuration surface as persistent flags on
// cmd, bound into v, so a user can override any key from the command line
// instead of only a config file or the environment.
func RegisterFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.PersistentFlags()

	flags.Int(KeyWorkers, 4, "number of scheduler worker threads")
	flags.Int64(KeyServerCapacity, 256, "total connection capacity across all workers")
	flags.String(KeyTimeout, "15s", "request receive timeout")
	flags.String(KeyKeepAliveTimeout, "5s", "keep-alive idle timeout")
	flags.String(KeySchedulerMode, "fair", "balancing mode: fair or kernel")
	flags.StringSlice(KeyListenAddresses, []string{":8080"}, "listen addresses")

	for _, key := range []string{
		KeyWorkers, KeyServerCapacity, KeyTimeout,
		KeyKeepAliveTimeout, KeySchedulerMode, KeyListenAddresses,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return err
		}
	}

	return nil
}
