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

// Package metrics exposes the scheduler's counters and gauges to Prometheus.
// Every value is collected lazily at scrape time from the worker table, so
// the hot accept/read/write paths never touch the prometheus SDK directly.
package metrics

import (
	prmsdk "github.com/prometheus/client_golang/prometheus"
)

// MetricType mirrors the small set of prometheus.Collector shapes the
// scheduler needs. Histogram and Summary are carried for parity with the
// broader metrics frameworks in the pack even though no scheduler metric
// currently uses them.
type MetricType uint8

const (
	None MetricType = iota
	Counter
	Gauge
	Histogram
	Summary
)

func (t MetricType) String() string {
	switch t {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	case Histogram:
		return "histogram"
	case Summary:
		return "summary"
	default:
		return "none"
	}
}

// Register builds the prometheus.Collector matching this type for the given
// Metric descriptor. The collector's value function is always m.Collect,
// called by prometheus at scrape time.
func (t MetricType) Register(m Metric) (prmsdk.Collector, error) {
	opts := prmsdk.Opts{
		Name:        m.GetName(),
		Help:        m.GetDesc(),
		ConstLabels: m.GetLabels(),
	}

	switch t {
	case Counter:
		return prmsdk.NewCounterFunc(prmsdk.CounterOpts(opts), m.Collect), nil
	case Gauge:
		return prmsdk.NewGaugeFunc(prmsdk.GaugeOpts(opts), m.Collect), nil
	default:
		return nil, errUnsupportedType(t)
	}
}
