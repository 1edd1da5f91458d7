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

package scheduler

import (
	"context"
	"net"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	libbal "github.com/sabouaram/wsched/balancer"
	libconf "github.com/sabouaram/wsched/config"
	liberr "github.com/sabouaram/wsched/errors"
	libmet "github.com/sabouaram/wsched/metrics"
	libnotify "github.com/sabouaram/wsched/notify"
	libplug "github.com/sabouaram/wsched/plugin"
	libsess "github.com/sabouaram/wsched/session"
	libwrk "github.com/sabouaram/wsched/worker"
)

// Supervisor owns the worker table, the balancer (fair mode only), and
// every listening socket, and drives the bootstrap/run/teardown sequence.
type Supervisor struct {
	cfg      libconf.Config
	hooks    libplug.Hooks
	sessions libsess.Store
	log      logrus.FieldLogger
	metrics  *libmet.Registry

	table   *Table
	workers []*libwrk.Worker
	fair    libbal.Fair

	fairListeners []net.Listener

	wg       sync.WaitGroup
	runErrMu sync.Mutex
	runErr   *multierror.Error
}

// New builds a Supervisor from a validated Config. hooks may be the zero
// value (libplug.Default() is applied). sessions is shared by every
// worker — safe because it is already internally synchronized
// (httpsession.Store and any conforming collaborator).
func New(cfg libconf.Config, hooks libplug.Hooks, sessions libsess.Store, log logrus.FieldLogger, reg *libmet.Registry) *Supervisor {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Supervisor{
		cfg:      cfg,
		hooks:    hooks.Fill(),
		sessions: sessions,
		log:      log,
		metrics:  reg,
		fair:     libbal.Fair{ServerCapacity: cfg.ServerCapacity},
	}
}

// Run bootstraps every worker, starts their event loops, and (fair mode
// only) the accept loop, then blocks until ctx is cancelled. On return
// every worker has completed FREE_ALL teardown.
func (s *Supervisor) Run(ctx context.Context) error {
	s.table = NewTable(ctx, s.cfg.Workers)

	if err := s.bootstrapWorkers(); err != nil {
		return err
	}

	if s.cfg.SchedulerMode == libconf.ModeKernel {
		if err := s.startKernelListeners(); err != nil {
			return err
		}
	} else if err := s.startFairAccept(); err != nil {
		return err
	}

	s.startWorkerLoops()
	s.waitInitialized()

	<-ctx.Done()
	return s.Shutdown()
}

// ListenAddrs returns the resolved addresses of the fair-mode listeners.
// Chiefly useful in tests and logging when configured with an ephemeral
// port ("host:0"); empty before startFairAccept has run.
func (s *Supervisor) ListenAddrs() []net.Addr {
	addrs := make([]net.Addr, 0, len(s.fairListeners))
	for _, ln := range s.fairListeners {
		addrs = append(addrs, ln.Addr())
	}
	return addrs
}

func (s *Supervisor) bootstrapWorkers() error {
	s.workers = make([]*libwrk.Worker, s.cfg.Workers)

	for i := 0; i < s.cfg.Workers; i++ {
		wk := libwrk.New(libwrk.Config{
			Index:            i,
			RequestTimeout:   s.cfg.Timeout,
			KeepAliveTimeout: s.cfg.KeepAliveTimeout,
			Hooks:            s.hooks,
			Sessions:         s.sessions,
			Logger:           s.log,
			TickInterval:     time.Second,
		})

		if err := wk.Bootstrap(s.table.Register); err != nil {
			return liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: worker bootstrap failed", err)
		}

		if s.metrics != nil {
			if err := libmet.RegisterWorker(s.metrics, i, wk); err != nil {
				s.log.WithError(err).Warn("scheduler: metrics registration failed for worker")
			}
		}

		s.workers[i] = wk
	}

	return nil
}

// startKernelListeners gives each worker its own SO_REUSEPORT listening
// socket per configured address (kernel-balanced mode).
func (s *Supervisor) startKernelListeners() error {
	lc := net.ListenConfig{Control: libbal.ListenControl}

	for _, wk := range s.workers {
		for _, addr := range s.cfg.ListenAddresses {
			ln, err := lc.Listen(context.Background(), "tcp", addr)
			if err != nil {
				return liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: listen failed", err)
			}

			fd, err := dupListenerFd(ln)
			if err != nil {
				return err
			}
			// dup'd fd shares the same underlying open file description,
			// so closing ln's own fd here does not tear down the copy
			// the worker now owns.
			_ = ln.Close()

			if err := wk.AddListener(fd); err != nil {
				return liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: epoll registration of listener failed", err)
			}
		}
	}

	return nil
}

// startFairAccept runs the single shared-listener accept loop fair mode
// uses: one accept socket, shared by every worker.
func (s *Supervisor) startFairAccept() error {
	for _, addr := range s.cfg.ListenAddresses {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return liberr.New(uint16(liberr.MinPkgScheduler), "scheduler: listen failed", err)
		}
		s.fairListeners = append(s.fairListeners, ln)

		s.wg.Add(1)
		go s.acceptLoop(ln)
	}

	return nil
}

func (s *Supervisor) acceptLoop(ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return // listener closed during Shutdown
		}

		fd, derr := dupListenerFd(conn.(*net.TCPConn))
		_ = conn.Close()
		if derr != nil {
			s.log.WithError(derr).Warn("scheduler: failed to extract fd from accepted connection")
			continue
		}

		s.dispatch(fd)
	}
}

// dispatch runs the fair balancer over a live snapshot of worker counters
// and hands the fd to the chosen worker, or closes it as a capacity
// refusal.
func (s *Supervisor) dispatch(fd int) {
	counters := make([]libbal.Counters, len(s.workers))
	for i, wk := range s.workers {
		counters[i] = wk
	}

	idx, ok := s.fair.Select(counters)
	if !ok {
		_ = closeFd(fd)
		if idx >= 0 && idx < len(s.workers) {
			s.workers[idx].NoteOverCapacity()
		}
		return
	}

	s.workers[idx].Accept(fd)
}

// runWorker is the per-worker run wrapper: a panic from wk.Run() means an
// internal invariant was violated, already logged at the panic site.
// Recovering it here, logging the worker index, and exiting the process
// is how a diagnosed process abort is realized for a worker thread
// modeled as a goroutine — letting the panic crash the process unrecovered
// would skip the diagnostic and take the whole binary down via the Go
// runtime's own (unlabeled) crash path instead.
func (s *Supervisor) runWorker(wk *libwrk.Worker) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("worker_idx", wk.Index()).
				WithField("panic", r).
				Error("scheduler: worker invariant violation, aborting process")
			os.Exit(1)
		}
	}()

	if err := wk.Run(); err != nil {
		s.runErrMu.Lock()
		s.runErr = multierror.Append(s.runErr, err)
		s.runErrMu.Unlock()
	}
}

func (s *Supervisor) startWorkerLoops() {
	for _, wk := range s.workers {
		wk := wk
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runWorker(wk)
		}()
	}
}

func (s *Supervisor) waitInitialized() {
	for !s.table.AllInitialized() {
		time.Sleep(time.Millisecond)
	}
}

// Shutdown broadcasts FREE_ALL to every worker, closes listeners, and
// waits for every worker goroutine to exit.
func (s *Supervisor) Shutdown() error {
	for _, ln := range s.fairListeners {
		_ = ln.Close()
	}

	for _, wk := range s.workers {
		if ch := wk.Notify(); ch != nil {
			if err := ch.Send(libnotify.SignalFreeAll); err != nil {
				s.log.WithError(err).Warn("scheduler: FREE_ALL send failed")
			}
		}
	}

	s.wg.Wait()
	s.table.Close()

	s.runErrMu.Lock()
	defer s.runErrMu.Unlock()
	if s.runErr == nil {
		return nil
	}
	return s.runErr.ErrorOrNil()
}
