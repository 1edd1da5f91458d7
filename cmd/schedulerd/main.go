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

// Command schedulerd is the scheduler's standalone binary: it loads
// configuration from flags/env/file via viper, builds the HTTP session
// store and metrics registry, and runs the supervisor until it receives
// SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libconf "github.com/sabouaram/wsched/config"
	liberr "github.com/sabouaram/wsched/errors"
	liblog "github.com/sabouaram/wsched/logging"
	libmet "github.com/sabouaram/wsched/metrics"
	libplug "github.com/sabouaram/wsched/plugin"
	"github.com/sabouaram/wsched/scheduler"
	"github.com/sabouaram/wsched/session/httpsession"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SCHEDULERD")
	v.AutomaticEnv()

	var (
		cfgFile  string
		logLevel string
		logJSON  bool
		metrics  string
	)

	cmd := &cobra.Command{
		Use:   "schedulerd",
		Short: "Run the connection scheduler",
		Long: "schedulerd accepts and schedules HTTP connections across a fixed " +
			"pool of single-threaded workers, either balancing them fairly at " +
			"accept time or delegating the choice to the kernel via SO_REUSEPORT.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return liberr.New(uint16(liberr.MinPkgConfig), "schedulerd: reading config file failed", err)
				}
			}

			cfg, err := libconf.Load(v)
			if err != nil {
				return liberr.New(uint16(liberr.MinPkgConfig), "schedulerd: config load failed", err)
			}

			log := liblog.New(liblog.Config{Level: logLevel, JSON: logJSON})

			reg := libmet.NewRegistry()
			if metrics != "" {
				go serveMetrics(metrics, reg, log)
			}

			sessions := httpsession.NewStore(httpsession.Config{}, func() int64 { return time.Now().Unix() })
			sup := scheduler.New(cfg, libplug.Default(), sessions, log, reg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.WithField("mode", cfg.SchedulerMode).
				WithField("workers", cfg.Workers).
				WithField("listen", cfg.ListenAddresses).
				Info("schedulerd: starting")

			if err := sup.Run(ctx); err != nil {
				return liberr.New(uint16(liberr.MinPkgScheduler), "schedulerd: run failed", err)
			}

			log.Info("schedulerd: stopped")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a config file (yaml, json, toml, ...)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON instead of text")
	cmd.PersistentFlags().StringVar(&metrics, "metrics-addr", "", "address to serve Prometheus metrics on (empty disables it)")

	if err := libconf.RegisterFlags(cmd, v); err != nil {
		panic(err) // flag registration only fails on a programming error
	}

	return cmd
}

// serveMetrics runs a standalone HTTP server exposing reg's Prometheus
// handler until the process exits. Errors other than a clean shutdown are
// logged, never fatal — metrics are diagnostic, not load-bearing.
func serveMetrics(addr string, reg *libmet.Registry, log logrus.FieldLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Warn("schedulerd: metrics server failed")
	}
}
