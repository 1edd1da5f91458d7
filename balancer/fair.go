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

// Package balancer selects which worker receives a newly accepted fd.
// Fair balancing scans worker counters on every accept; kernel-balanced
// mode (SO_REUSEPORT) moves the decision into the kernel and never runs
// this per-connection code path at all.
package balancer

// Counters is the read-only view of one worker's load a balancer needs:
// monotonic accepted/closed counts. Reads may be stale; the worst
// consequence is a sub-optimal choice that self-corrects on the next
// accept.
type Counters interface {
	Accepted() int64
	Closed() int64
}

// Fair picks the worker minimizing (accepted − closed), ties broken by
// lowest index, and refuses when the chosen worker is already at its
// per-worker capacity share.
//
// ServerCapacity is divided by the worker count to get each worker's
// ceiling. The reference C source instead compares the per-worker live
// count against the undivided, global server_capacity — a likely latent
// bug there. This implementation follows the per-worker-share reading
// (see DESIGN.md).
type Fair struct {
	ServerCapacity int64
}

// Select scans workers and returns the chosen index, or ok=false if every
// worker is at capacity (the caller must then close the incoming fd and
// count it as an over-capacity refusal).
func (f Fair) Select(workers []Counters) (idx int, ok bool) {
	if len(workers) == 0 {
		return 0, false
	}

	share := f.ServerCapacity / int64(len(workers))

	best := -1
	var bestLive int64

	for i, w := range workers {
		live := w.Accepted() - w.Closed()
		if best == -1 || live < bestLive {
			best = i
			bestLive = live
		}
	}

	if bestLive >= share {
		// best still names the worker that would have received this fd;
		// the caller attributes its over_capacity counter to it.
		return best, false
	}

	return best, true
}
