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
	"golang.org/x/sys/unix"

	libplug "github.com/sabouaram/wsched/plugin"
)

// drop terminates the connection on fd, following a fixed eight-step
// order. Steps 6 (index erase) and 8 (socket close) must not be reordered
// relative to one another or the fd could be reused by a concurrent
// accept while still indexed.
//
//  1. session remove
//  2. index lookup; a miss means this fd was already dropped — return
//     idempotently rather than double-counting or double-closing
//  3. epoll deregister
//  4. Stage50 hook
//  5. closed counter increment
//  6. index erase
//  7. free the record (nothing to do explicitly in Go beyond dropping
//     every reference — the garbage collector reclaims it)
//  8. socket close
func (w *Worker) drop(fd int, reason libplug.Reason) {
	// 1. session remove
	if w.sessions != nil {
		w.sessions.Remove(fd)
	}

	// 2. index lookup, idempotent return on miss
	rec, ok := w.index.Lookup(fd)
	if !ok {
		return
	}

	// 3. epoll deregister
	if w.lp != nil {
		if err := w.lp.remove(fd); err != nil {
			w.log.WithError(err).Warn("worker: epoll deregister failed during drop")
		}
	}

	// 4. Stage50 hook
	w.hooks.Stage50(fd)
	w.hooks.OnClose(fd, reason)

	// 5. closed counter increment
	w.closed.Add(1)

	// 6. index erase
	w.index.Erase(fd)

	// 7. free the record — rec goes out of scope once this function
	// returns; nothing further to release.
	_ = rec

	// 8. socket close, strictly after the index erase above
	if err := unix.Close(fd); err != nil {
		w.log.WithError(err).Warn("worker: socket close failed during drop")
	}
}
