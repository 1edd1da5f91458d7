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

// Package errors provides a classified error type (a numeric CodeError plus
// a parent-error chain and a capture-site trace) used throughout the
// scheduler to distinguish peer-induced failures, resource exhaustion, and
// internal invariant violations without string-matching error messages.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// FuncMap is called once per error in a Map walk (the error itself, then
// each parent in turn); returning false stops the walk.
type FuncMap func(err Error) bool

// Error classifies a Go error with a numeric code and an optional chain of
// parent errors it was raised alongside.
type Error interface {
	error

	IsCode(code CodeError) bool
	HasCode(code CodeError) bool
	GetCode() CodeError
	GetParentCode() []CodeError

	Is(err error) bool
	IsError(err error) bool
	HasError(err error) bool
	HasParent() bool
	GetParent(withMainError bool) []error
	SetParent(parent ...error)
	Add(parent ...error)

	Map(fct FuncMap) bool
	ContainsString(s string) bool

	Code() uint16
	CodeSlice() []uint16
	StringError() string
	StringErrorSlice() []string
	GetError() error
	GetErrorSlice() []error
	Unwrap() []error

	GetTrace() string
	GetTraceSlice() []string

	CodeError(pattern string) string
	CodeErrorSlice(pattern string) []string
	CodeErrorTrace(pattern string) string
	CodeErrorTraceSlice(pattern string) []string
}

// Is reports whether e carries an Error in its chain.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an Error if it carries one, nil otherwise.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// Has reports whether e or one of its parents carries code.
func Has(e error, code CodeError) bool {
	err := Get(e)
	return err != nil && err.HasCode(code)
}

// ContainsString reports whether e's message, or one of its parents',
// contains s.
func ContainsString(e error, s string) bool {
	if e == nil {
		return false
	}
	if err := Get(e); err != nil {
		return err.ContainsString(s)
	}
	return strings.Contains(e.Error(), s)
}

// IsCode reports whether e carries exactly code (not a parent's).
func IsCode(e error, code CodeError) bool {
	err := Get(e)
	return err != nil && err.IsCode(code)
}

// Make returns e as an Error, wrapping it with code 0 if it isn't one
// already. Make(nil) returns nil.
func Make(e error) Error {
	if e == nil {
		return nil
	}

	var err Error
	if errors.As(e, &err) {
		return err
	}

	return &ers{c: 0, e: e.Error(), t: getNilFrame()}
}

// MakeIfError folds a set of errors into a single Error, or nil if every
// argument is nil.
func MakeIfError(err ...error) Error {
	var e Error

	for _, p := range err {
		if p == nil {
			continue
		} else if e == nil {
			e = Make(p)
		} else {
			e.Add(p)
		}
	}

	return e
}

// AddOrNew adds errSub (and any parent) onto errMain, creating a new Error
// from scratch if errMain is nil.
func AddOrNew(errMain, errSub error, parent ...error) Error {
	if errMain != nil {
		e := Get(errMain)
		if e == nil {
			e = New(0, errMain.Error())
		}
		e.Add(errSub)
		e.Add(parent...)
		return e
	} else if errSub != nil {
		return New(0, errSub.Error(), parent...)
	}

	return nil
}

// New builds an Error with the given code, message, and optional parents,
// capturing the caller's frame as the trace site.
func New(code uint16, message string, parent ...error) Error {
	p := make([]Error, 0, len(parent))
	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}

	return &ers{
		c: code,
		e: message,
		p: p,
		t: getFrame(),
	}
}

// Newf is New with an fmt.Sprintf-formatted message.
func Newf(code uint16, pattern string, args ...any) Error {
	return &ers{
		c: code,
		e: fmt.Sprintf(pattern, args...),
		t: getFrame(),
	}
}

// NewErrorTrace builds an Error with an explicit capture site, for callers
// that already captured their own runtime.Frame (e.g. a recovered panic).
func NewErrorTrace(code int, msg string, file string, line int, parent ...error) Error {
	p := make([]Error, 0, len(parent))
	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}

	return &ers{
		c: ParseCodeError(int64(code)).Uint16(),
		e: msg,
		p: p,
		t: frameAt(file, line),
	}
}

// NewErrorRecovered builds an Error from a recover() value.
func NewErrorRecovered(msg string, recovered string, parent ...error) Error {
	e := New(0, msg, parent...)
	if recovered != "" {
		e.Add(errors.New(recovered))
	}
	return e
}

// IfError returns a new Error only if message is non-empty.
func IfError(code uint16, message string, parent ...error) Error {
	if message == "" {
		return nil
	}
	return New(code, message, parent...)
}
