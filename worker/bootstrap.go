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
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"

	liberr "github.com/sabouaram/wsched/errors"
	libnotify "github.com/sabouaram/wsched/notify"
)

// Bootstrap runs the worker's thread-start sequence: thread-local SIGPIPE
// mask, table registration, event loop and notification channel creation,
// EventInit, then the initialized flag. It must be called from the
// goroutine that will subsequently call Run — LockOSThread pins that
// goroutine to the OS thread for the worker's entire lifetime, since the
// SIGPIPE mask and thread name are thread-scoped kernel properties.
//
// register is called once, under whatever mutex the caller's worker table
// uses to protect its shared state; it runs before the event loop or
// notification channel are created.
func (w *Worker) Bootstrap(register func(idx int, wk *Worker)) error {
	runtime.LockOSThread()

	if err := maskSigpipe(); err != nil {
		return err
	}

	if register != nil {
		register(w.idx, w)
	}

	lp, err := newLoop()
	if err != nil {
		return err
	}
	w.lp = lp

	ch, err := libnotify.New()
	if err != nil {
		return err
	}
	w.notify = ch
	if err := w.lp.add(ch.Fd(), maskReadable); err != nil {
		return err
	}

	w.hooks.EventInit(w.idx)

	setThreadName(fmt.Sprintf("worker/%d", w.idx))

	w.initialized.Store(true)

	return nil
}

// maskSigpipe installs a thread-local mask that ignores SIGPIPE, so a
// write to a peer that has reset the connection surfaces as EPIPE on the
// syscall return instead of terminating the process.
func maskSigpipe() error {
	var set unix.Sigset_t
	set.Val[0] |= 1 << (uint(unix.SIGPIPE) - 1)

	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &set, nil); err != nil {
		return liberr.New(uint16(liberr.MinPkgWorker), "worker: sigprocmask(SIGPIPE) failed", err)
	}
	return nil
}

// setThreadName renames the calling thread to "worker/<idx>" for
// observability. Best-effort: a failure here is not fatal to bootstrap,
// it only degrades `ps`/`top` output.
func setThreadName(name string) {
	if len(name) > 15 {
		name = name[:15] // TASK_COMM_LEN including the NUL terminator
	}

	b, err := unix.ByteSliceFromString(name)
	if err != nil {
		return
	}
	_ = unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&b[0])), 0, 0, 0)
}
