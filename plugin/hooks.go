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

// Package plugin names the scheduler's fixed hook points as a small
// capability set resolved once at worker init, never looked up
// dynamically on the hot path — unlike the reference implementation's
// dynamic plugin dispatch.
package plugin

// Verdict is what a hook returns; the scheduler only honors a refusal at
// Stage10.
type Verdict uint8

const (
	// Continue lets the scheduler proceed with its default action.
	Continue Verdict = iota
	// Refuse is honored only by Stage10: the candidate connection is
	// closed immediately instead of being admitted.
	Refuse
)

// Reason names why a connection reached its close dispatcher, so a single
// OnClose-family hook implementation can discriminate without string
// matching.
type Reason uint8

const (
	ReasonError Reason = iota
	ReasonTimeout
	ReasonPeerClose
	ReasonFreeAll
)

// Hooks is the full set of stage callbacks a worker resolves once at
// event_init and invokes inline thereafter. Every field defaults to a
// no-op via Default(), so a caller only supplies what it needs.
type Hooks struct {
	// Stage10 runs at accept time, before a Record is admitted. Only
	// hook point whose Refuse is honored.
	Stage10 func(fd int) Verdict

	// Stage50 runs once per connection at drop time, after the fd is
	// deregistered from the event loop but before the index erase.
	Stage50 func(fd int)

	// OnClose runs once per connection reaching a terminal state,
	// after Stage50, tagged with why.
	OnClose func(fd int, reason Reason)

	// EventInit runs once per worker at bootstrap, after the event loop
	// and notification channel exist but before the loop is entered.
	EventInit func(workerIdx int)
}

// Default returns a Hooks whose every field is a harmless no-op,
// equivalent to a worker configured without any plugin.
func Default() Hooks {
	return Hooks{
		Stage10:   func(int) Verdict { return Continue },
		Stage50:   func(int) {},
		OnClose:   func(int, Reason) {},
		EventInit: func(int) {},
	}
}

// Fill replaces any nil field of h with Default()'s no-op, so partially
// constructed Hooks values are always safe to invoke unconditionally.
func (h Hooks) Fill() Hooks {
	d := Default()

	if h.Stage10 == nil {
		h.Stage10 = d.Stage10
	}
	if h.Stage50 == nil {
		h.Stage50 = d.Stage50
	}
	if h.OnClose == nil {
		h.OnClose = d.OnClose
	}
	if h.EventInit == nil {
		h.EventInit = d.EventInit
	}

	return h
}
