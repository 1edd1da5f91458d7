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
	"net/http"
	"sync"

	prmsdk "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a private prometheus registry (never the global
// DefaultRegisterer, so two supervisors in one process never collide) and
// the list of metrics registered against it.
type Registry struct {
	mu   sync.RWMutex
	reg  *prmsdk.Registry
	list map[string]Metric
}

// NewRegistry returns an empty registry ready to accept metrics.
func NewRegistry() *Registry {
	return &Registry{
		reg:  prmsdk.NewRegistry(),
		list: make(map[string]Metric),
	}
}

// AddMetric registers m and keeps it in the listing returned by ListMetric.
func (r *Registry) AddMetric(m Metric) error {
	if err := m.Register(r.reg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.list[metricKey(m)] = m
	return nil
}

// GetMetric returns a previously added metric by its registration key (as
// reported by ListMetric).
func (r *Registry) GetMetric(key string) (Metric, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.list[key]
	return m, ok
}

// ListMetric returns every metric key currently registered.
func (r *Registry) ListMetric() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.list))
	for key := range r.list {
		out = append(out, key)
	}
	return out
}

// metricKey disambiguates metrics that share a name but differ by const
// label (e.g. the same gauge registered once per worker index).
func metricKey(m Metric) string {
	key := m.GetName()
	for k, v := range m.GetLabels() {
		key += "," + k + "=" + v
	}
	return key
}

// Handler returns the http.Handler that serves this registry's metrics in
// the Prometheus exposition format, for mounting under the admin listener.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
