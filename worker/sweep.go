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

package worker

import (
	"time"

	libconn "github.com/sabouaram/wsched/conn"
	libplug "github.com/sabouaram/wsched/plugin"
	libsess "github.com/sabouaram/wsched/session"
)

// sweepTimeouts runs the two-pass timeout scan. It never runs concurrently
// with event dispatch — both are driven from the same goroutine's loop
// iteration — so neither pass needs to tolerate a mutation racing
// underneath it.
func (w *Worker) sweepTimeouts(now time.Time) {
	w.sweepIncomplete(now)
	w.sweepSessions(now)
}

// sweepIncomplete is pass 1: any connection that has no session yet
// (Record.Incomplete) past arrival_time + request_timeout is dropped.
func (w *Worker) sweepIncomplete(now time.Time) {
	var expired []int

	w.index.Walk(func(rec *libconn.Record) bool {
		if rec.Incomplete && now.Sub(rec.Arrival) >= w.requestTimeout {
			expired = append(expired, rec.Fd)
		}
		return true
	})

	for _, fd := range expired {
		w.drop(fd, libplug.ReasonTimeout)
	}
}

// sweepSessions is pass 2: any session past its deadline is dropped. A
// connection that has not yet completed a single request uses
// request_timeout; one that has completed at least one uses
// keep_alive_timeout.
func (w *Worker) sweepSessions(now time.Time) {
	if w.sessions == nil {
		return
	}

	var expired []int

	w.sessions.Range(func(fd int, s libsess.Session) bool {
		budget := w.keepAliveTimeout
		if s.CounterConnections() == 0 {
			budget = w.requestTimeout
		}

		deadline := time.Unix(s.InitTime(), 0).Add(budget)
		if !now.Before(deadline) {
			expired = append(expired, fd)
		}
		return true
	})

	for _, fd := range expired {
		w.drop(fd, libplug.ReasonTimeout)
	}
}
