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

// Package config carries the scheduler's configuration surface — worker
// count, capacity, timeouts, balancing mode and listen addresses — loaded
// through viper so it can come from a file, the environment, or flags.
package config

import (
	libdur "github.com/sabouaram/wsched/duration"
	liberr "github.com/sabouaram/wsched/errors"
)

// Mode selects how accepted connections are spread across workers.
type Mode string

const (
	// ModeFair runs the per-accept balancer in balancer.Fair.
	ModeFair Mode = "fair"
	// ModeKernel relies on SO_REUSEPORT and never runs balancer code.
	ModeKernel Mode = "kernel"
)

const (
	KeyWorkers           = "workers"
	KeyServerCapacity    = "server_capacity"
	KeyTimeout           = "timeout"
	KeyKeepAliveTimeout  = "keep_alive_timeout"
	KeySchedulerMode     = "scheduler_mode"
	KeyListenAddresses   = "listen_addresses"
)

// Config is the fully resolved, validated configuration for one scheduler
// instance.
//
// Keys mirror the flags/env vars schedulerd registers, via viper's
// mapstructure tags.
type Config struct {
	Workers          int           `mapstructure:"workers"`
	ServerCapacity   int64         `mapstructure:"server_capacity"`
	Timeout          libdur.Duration `mapstructure:"timeout"`
	KeepAliveTimeout libdur.Duration `mapstructure:"keep_alive_timeout"`
	SchedulerMode    Mode          `mapstructure:"scheduler_mode"`
	ListenAddresses  []string      `mapstructure:"listen_addresses"`
}

// Default returns the baseline configuration a fresh install starts from.
func Default() Config {
	return Config{
		Workers:          4,
		ServerCapacity:   256,
		Timeout:          libdur.Seconds(15),
		KeepAliveTimeout: libdur.Seconds(5),
		SchedulerMode:    ModeFair,
		ListenAddresses:  []string{":8080"},
	}
}

// Validate checks the invariants the scheduler relies on before it starts
// any worker: a misconfigured worker count or capacity must fail fast, not
// surface as a mysterious runtime refusal.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return liberr.Newf(uint16(liberr.MinPkgConfig), "config: workers must be positive, got %d", c.Workers)
	}
	if c.ServerCapacity <= 0 {
		return liberr.Newf(uint16(liberr.MinPkgConfig), "config: server_capacity must be positive, got %d", c.ServerCapacity)
	}
	if c.ServerCapacity < int64(c.Workers) {
		return liberr.Newf(uint16(liberr.MinPkgConfig), "config: server_capacity (%d) must be at least workers (%d)", c.ServerCapacity, c.Workers)
	}
	if c.SchedulerMode != ModeFair && c.SchedulerMode != ModeKernel {
		return liberr.Newf(uint16(liberr.MinPkgConfig), "config: scheduler_mode must be %q or %q, got %q", ModeFair, ModeKernel, c.SchedulerMode)
	}
	if len(c.ListenAddresses) == 0 {
		return liberr.New(uint16(liberr.MinPkgConfig), "config: listen_addresses must not be empty")
	}
	return nil
}

// PerWorkerShare is the per-worker capacity ceiling the fair balancer
// refuses against (see balancer.Fair and DESIGN.md's Open Question note).
func (c Config) PerWorkerShare() int64 {
	return c.ServerCapacity / int64(c.Workers)
}
