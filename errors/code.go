/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

import "math"

// CodeError is a numeric error code, similar in spirit to an HTTP status
// code. It classifies an error without forcing callers to string-match its
// message.
type CodeError uint16

const (
	// UnknownError is used when no specific code applies.
	UnknownError CodeError = 0

	UnknownMessage = "unknown error"
	NullMessage    = ""
)

// Package code ranges for the scheduler's own error taxonomy. Each
// collaborator package that wants a disjoint code space starts at its own
// Min constant, mirroring how the error codes are allocated per package.
const (
	MinPkgConn      = 100
	MinPkgBalancer  = 200
	MinPkgWorker    = 300
	MinPkgScheduler = 400
	MinPkgSession   = 500
	MinPkgConfig    = 600
	MinPkgMetrics   = 700

	MinAvailable = 1000
)

// ParseCodeError clamps i into the valid CodeError range.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	}
	return CodeError(i)
}

// NewCodeError wraps a raw uint16 as a CodeError.
func NewCodeError(code uint16) CodeError {
	return CodeError(code)
}

// Uint16 returns the underlying numeric value.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func unicCodeSlice(in []CodeError) []CodeError {
	seen := make(map[CodeError]struct{}, len(in))
	out := make([]CodeError, 0, len(in))

	for _, c := range in {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out
}
