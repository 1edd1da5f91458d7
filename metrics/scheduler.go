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
	"fmt"

	prmsdk "github.com/prometheus/client_golang/prometheus"
)

// WorkerSource is the read-only counter view a worker exposes for scraping.
// Implementations must be safe to call from the Prometheus scrape goroutine
// concurrently with the worker's own event loop — the worker backs these
// with atomic counters for exactly that reason.
type WorkerSource interface {
	Accepted() int64
	Closed() int64
	OverCapacity() int64
	Live() int64
}

// RegisterWorker adds the four standard scheduler gauges/counters for one
// worker, labeled by its index, to reg. Each value is read lazily at scrape
// time from src, so registration never blocks on the worker's own loop.
func RegisterWorker(reg *Registry, idx int, src WorkerSource) error {
	labels := prmsdk.Labels{"worker": fmt.Sprintf("%d", idx)}

	specs := []struct {
		name string
		typ  MetricType
		desc string
		fn   CollectFunc
	}{
		{"wsched_connections_accepted_total", Counter, "total connections accepted by this worker", func() float64 { return float64(src.Accepted()) }},
		{"wsched_connections_closed_total", Counter, "total connections closed by this worker", func() float64 { return float64(src.Closed()) }},
		{"wsched_connections_over_capacity_total", Counter, "connections refused because the worker was at capacity", func() float64 { return float64(src.OverCapacity()) }},
		{"wsched_connections_live", Gauge, "connections currently open on this worker", func() float64 { return float64(src.Live()) }},
	}

	for _, s := range specs {
		m := NewMetric(s.name, s.typ).SetDesc(s.desc).SetLabels(labels).SetCollect(s.fn)
		if err := reg.AddMetric(m); err != nil {
			return err
		}
	}
	return nil
}
