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

// Package worker implements one scheduler worker: its event loop, its
// connection index, its incomplete-request list, and the drop/sweep
// primitives that terminate connections. One Worker is one OS thread
// running one single-threaded event loop; no connection record is ever
// touched by more than one Worker.
package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	libconn "github.com/sabouaram/wsched/conn"
	libdur "github.com/sabouaram/wsched/duration"
	liblog "github.com/sabouaram/wsched/logging"
	libnotify "github.com/sabouaram/wsched/notify"
	libplug "github.com/sabouaram/wsched/plugin"
	libsess "github.com/sabouaram/wsched/session"
)

// Config carries the per-worker knobs drawn from the scheduler's
// configuration surface.
type Config struct {
	Index            int
	RequestTimeout   libdur.Duration
	KeepAliveTimeout libdur.Duration
	Hooks            libplug.Hooks
	Sessions         libsess.Store
	Logger           logrus.FieldLogger
	Now              func() time.Time
	// TickInterval bounds how long the event loop blocks between polls
	// of the accept hand-off queue and timeout sweeps; the coarse clock
	// tick that also wakes the loop for periodic bookkeeping even when
	// no fd is ready. Defaults to 1s.
	TickInterval time.Duration
}

// Worker is one scheduler worker's runtime state.
type Worker struct {
	idx int

	lp       *loop
	index    *libconn.Index
	sessions libsess.Store
	notify   *libnotify.Channel
	hooks    libplug.Hooks
	log      logrus.FieldLogger
	now      func() time.Time
	tick     time.Duration

	requestTimeout   time.Duration
	keepAliveTimeout time.Duration

	// listeners holds the fds of this worker's own kernel-balanced
	// listening sockets, nil in fair mode.
	listeners map[int]struct{}

	// acceptMu/acceptQueue is the thread-safe hand-off point between
	// whatever goroutine runs the balancer/acceptor and this Worker's
	// own single-threaded loop goroutine: no connection record is ever
	// touched by more than one thread, so the fd sits here as plain data
	// until drained and registered from inside Run.
	acceptMu    sync.Mutex
	acceptQueue []int

	accepted     atomic.Int64
	closed       atomic.Int64
	overCapacity atomic.Int64

	initialized atomic.Bool
	freeAll     atomic.Bool
}

// New constructs a Worker. It does not yet own an event loop or
// notification channel — call Bootstrap to bring it up.
func New(cfg Config) *Worker {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Worker{
		idx:              cfg.Index,
		index:            libconn.NewIndex(),
		sessions:         cfg.Sessions,
		hooks:            cfg.Hooks.Fill(),
		log:              liblog.WithWorker(log, cfg.Index),
		now:              now,
		tick:             tick,
		requestTimeout:   cfg.RequestTimeout.Time(),
		keepAliveTimeout: cfg.KeepAliveTimeout.Time(),
	}
}

// Index is this worker's stable position in the worker table.
func (w *Worker) Index() int { return w.idx }

// Accepted is the monotonic count of connections ever admitted.
func (w *Worker) Accepted() int64 { return w.accepted.Load() }

// Closed is the monotonic count of connections ever dropped.
func (w *Worker) Closed() int64 { return w.closed.Load() }

// OverCapacity is the monotonic count of refusals at this worker.
func (w *Worker) OverCapacity() int64 { return w.overCapacity.Load() }

// NoteOverCapacity records a refusal attributed to this worker by a
// balancer that decided not to hand it an fd at all: the counter
// increments on the worker that would have received it, even though no
// record or event-loop registration is ever created.
func (w *Worker) NoteOverCapacity() { w.overCapacity.Add(1) }

// Live is the current live-connection count: accepted − closed, which
// must always equal the index size.
func (w *Worker) Live() int64 { return w.accepted.Load() - w.closed.Load() }

// Initialized reports whether Bootstrap has completed, the flag the
// supervisor's init barrier joins against.
func (w *Worker) Initialized() bool { return w.initialized.Load() }

// Notify returns the notification channel the supervisor writes lifecycle
// signals to. Exposed as a method so the supervisor never reaches into
// worker-owned fields directly.
func (w *Worker) Notify() *libnotify.Channel { return w.notify }

// Accept hands an already-accepted fd to this worker for admission. Safe
// to call from any goroutine (e.g. the balancer's dispatch path); the fd
// is only touched by this Worker's own loop once drained from the queue.
func (w *Worker) Accept(fd int) {
	w.acceptMu.Lock()
	w.acceptQueue = append(w.acceptQueue, fd)
	w.acceptMu.Unlock()
}

// AddListener registers fd as one of this worker's own listening sockets
// (kernel-balanced mode only). Must be called after Bootstrap and before
// Run, from the same goroutine as both.
func (w *Worker) AddListener(fd int) error {
	if w.listeners == nil {
		w.listeners = make(map[int]struct{})
	}
	if err := w.lp.add(fd, maskReadable); err != nil {
		return err
	}
	w.listeners[fd] = struct{}{}
	return nil
}

func (w *Worker) drainAcceptQueue() []int {
	w.acceptMu.Lock()
	defer w.acceptMu.Unlock()

	if len(w.acceptQueue) == 0 {
		return nil
	}
	out := w.acceptQueue
	w.acceptQueue = nil
	return out
}
