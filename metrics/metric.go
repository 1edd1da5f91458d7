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

package metrics

import (
	prmsdk "github.com/prometheus/client_golang/prometheus"

	liberr "github.com/sabouaram/wsched/errors"
)

func errUnsupportedType(t MetricType) error {
	return liberr.Newf(uint16(liberr.MinPkgMetrics), "metrics: type %s cannot be registered as a value collector", t)
}

// CollectFunc returns the current value of a metric. It runs on every
// Prometheus scrape, so it must be cheap and non-blocking: reading an
// atomic counter, never acquiring a lock that the accept/read/write paths
// also hold.
type CollectFunc func() float64

// Metric is one named, typed, lazily-collected value.
type Metric interface {
	GetName() string
	GetType() MetricType
	GetDesc() string
	GetLabels() prmsdk.Labels
	SetDesc(desc string) Metric
	SetLabels(labels prmsdk.Labels) Metric
	SetCollect(fn CollectFunc) Metric
	Collect() float64
	Register(reg *prmsdk.Registry) error
}

type metric struct {
	name   string
	typ    MetricType
	desc   string
	labels prmsdk.Labels
	fn     CollectFunc
}

// NewMetric describes a named value of the given type. It is not yet bound
// to a collect function or registered with any registry.
func NewMetric(name string, typ MetricType) Metric {
	return &metric{name: name, typ: typ, fn: func() float64 { return 0 }}
}

func (m *metric) GetName() string        { return m.name }
func (m *metric) GetType() MetricType    { return m.typ }
func (m *metric) GetDesc() string        { return m.desc }
func (m *metric) GetLabels() prmsdk.Labels { return m.labels }

func (m *metric) SetLabels(labels prmsdk.Labels) Metric {
	m.labels = labels
	return m
}

func (m *metric) SetDesc(desc string) Metric {
	m.desc = desc
	return m
}

func (m *metric) SetCollect(fn CollectFunc) Metric {
	if fn != nil {
		m.fn = fn
	}
	return m
}

func (m *metric) Collect() float64 {
	return m.fn()
}

// Register builds this metric's collector and registers it against reg.
func (m *metric) Register(reg *prmsdk.Registry) error {
	c, err := m.typ.Register(m)
	if err != nil {
		return err
	}
	return reg.Register(c)
}
