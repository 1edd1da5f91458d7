/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package context provides a cancellable, map-backed scope used to hold
// worker- and server-scoped values without resorting to package-level or
// thread-local globals (the scheduler's re-architecture of the reference
// implementation's __thread globals, see DESIGN.md).
//
// A Scope is threaded explicitly through worker bootstrap and supervisor
// construction; nothing in this module reads from a goroutine-local or
// process-global variable.
package context

import (
	"context"

	libatm "github.com/sabouaram/wsched/atomic"
)

// FuncWalk is called once per stored key/value during Walk; returning false
// stops the iteration early.
type FuncWalk[T comparable] func(key T, val any) bool

// Scope is a context.Context augmented with a concurrency-safe key/value
// store. New hands out no CancelFunc: the scope is cancelled when the
// parent context passed to New is cancelled, which is how the supervisor
// tells every derived scope that FREE_ALL has begun.
type Scope[T comparable] interface {
	context.Context

	Load(key T) (val any, ok bool)
	Store(key T, val any)
	Delete(key T)
	Walk(fct FuncWalk[T])

	// Clone returns an independent scope pre-populated with a snapshot of
	// the current key/value pairs, parented on ctx (or on this scope's own
	// context if ctx is nil).
	Clone(ctx context.Context) Scope[T]
}

type scope[T comparable] struct {
	m libatm.Map[T]
	context.Context
}

// New returns a Scope parented on ctx. A nil ctx defaults to
// context.Background().
func New[T comparable](ctx context.Context) Scope[T] {
	if ctx == nil {
		ctx = context.Background()
	}

	return &scope[T]{
		m:       libatm.NewMap[T](),
		Context: ctx,
	}
}

func (s *scope[T]) Load(key T) (any, bool) {
	return s.m.Load(key)
}

func (s *scope[T]) Store(key T, val any) {
	s.m.Store(key, val)
}

func (s *scope[T]) Delete(key T) {
	s.m.Delete(key)
}

func (s *scope[T]) Walk(fct FuncWalk[T]) {
	s.m.Range(func(key T, val any) bool {
		return fct(key, val)
	})
}

func (s *scope[T]) Clone(ctx context.Context) Scope[T] {
	if ctx == nil {
		ctx = s.Context
	}

	n := New[T](ctx)
	s.Walk(func(key T, val any) bool {
		n.Store(key, val)
		return true
	})
	return n
}
