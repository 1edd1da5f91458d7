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

// Package scheduler assembles workers, a balancer, and listening sockets
// into one running server via a Supervisor.
package scheduler

import (
	"context"
	"sync"

	libctx "github.com/sabouaram/wsched/context"
	libwrk "github.com/sabouaram/wsched/worker"
)

// Table is the worker table: a shared, mutex-guarded registry every
// worker joins during bootstrap and the supervisor's init barrier reads
// from. It is built on package context's
// cancellable scope rather than a bare map, so the same cancellation that
// tears the scope down can carry a FREE_ALL-adjacent signal to anything
// else keyed into it (e.g. per-worker diagnostic state).
type Table struct {
	mu     sync.Mutex
	scope  libctx.Scope[int]
	cancel context.CancelFunc
	count  int
}

// NewTable returns an empty Table of the given worker count, parented on
// ctx (context.Background() if nil). Cancelling the table's Context (via
// Close) is the signal a supervisor uses to unwind anything it stored
// per-worker beyond the *worker.Worker pointers themselves.
func NewTable(ctx context.Context, workers int) *Table {
	cctx, cancel := context.WithCancel(orBackground(ctx))
	return &Table{
		scope:  libctx.New[int](cctx),
		cancel: cancel,
		count:  workers,
	}
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// Register records wk at idx under the table's mutex. Called once per
// worker from within Bootstrap, before the event loop exists.
func (t *Table) Register(idx int, wk *libwrk.Worker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scope.Store(idx, wk)
}

// Get returns the worker registered at idx, if bootstrap has reached it
// yet.
func (t *Table) Get(idx int) (*libwrk.Worker, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.scope.Load(idx)
	if !ok {
		return nil, false
	}
	return v.(*libwrk.Worker), true
}

// Len is the table's configured worker count (not the number registered
// so far — use AllInitialized for the init barrier).
func (t *Table) Len() int { return t.count }

// Walk visits every registered worker in no particular order.
func (t *Table) Walk(fn func(idx int, wk *libwrk.Worker) bool) {
	t.scope.Walk(func(idx int, v any) bool {
		return fn(idx, v.(*libwrk.Worker))
	})
}

// AllInitialized is the supervisor's bootstrap barrier: true once every
// configured worker slot is registered and has published initialized.
func (t *Table) AllInitialized() bool {
	t.mu.Lock()
	n := 0
	t.scope.Walk(func(_ int, v any) bool {
		if v.(*libwrk.Worker).Initialized() {
			n++
		}
		return true
	})
	t.mu.Unlock()
	return n == t.count
}

// Close cancels the table's scope. Supervisor calls this once teardown
// has been broadcast to every worker.
func (t *Table) Close() {
	t.cancel()
}
