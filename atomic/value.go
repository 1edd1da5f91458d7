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

package atomic

import (
	"sync/atomic"
)

// Value is a type-safe, lock-free holder for a single value of type T.
// It is used for state that is written by one goroutine (a worker, or the
// supervisor) and read by others without taking a lock — for example a
// worker's "initialized" flag or its currently installed *http.Server.
type Value[T any] interface {
	Load() T
	Store(val T)
	Swap(new T) (old T)
	CompareAndSwap(old, new T) (swapped bool)
}

type val[T any] struct {
	av atomic.Value
}

// NewValue returns an empty Value[T]. Load returns the zero value of T
// until the first Store.
func NewValue[T any]() Value[T] {
	return &val[T]{}
}

func (o *val[T]) Load() (out T) {
	if v, k := Cast[box[T]](o.av.Load()); k {
		out = v.v
	}
	return out
}

func (o *val[T]) Store(value T) {
	o.av.Store(box[T]{v: value})
}

func (o *val[T]) Swap(new T) (old T) {
	if v, k := Cast[box[T]](o.av.Swap(box[T]{v: new})); k {
		old = v.v
	}
	return old
}

func (o *val[T]) CompareAndSwap(old, new T) bool {
	return o.av.CompareAndSwap(box[T]{v: old}, box[T]{v: new})
}

// box wraps T so that atomic.Value.Store always receives a value of the
// same concrete type, even when T's zero value is an untyped nil interface
// (atomic.Value panics on inconsistent concrete types across calls).
type box[T any] struct {
	v T
}
