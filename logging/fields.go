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

// Package logging wraps logrus with the structured fields the scheduler
// attaches to every log line: which worker emitted it and, where relevant,
// which connection it concerns.
package logging

import "github.com/sirupsen/logrus"

// Fields is an immutable set of structured log fields: every mutator
// returns a new Fields rather than editing in place, so a base set of
// fields can be shared across goroutines and specialized per call site
// without races.
type Fields map[string]interface{}

func NewFields() Fields {
	return make(Fields)
}

func (f Fields) clone() Fields {
	res := make(Fields, len(f))
	for k, v := range f {
		res[k] = v
	}
	return res
}

func (f Fields) Add(key string, val interface{}) Fields {
	res := f.clone()
	res[key] = val
	return res
}

func (f Fields) Merge(other Fields) Fields {
	if len(other) == 0 {
		return f
	} else if len(f) == 0 {
		return other
	}

	res := f.clone()
	for k, v := range other {
		res[k] = v
	}
	return res
}

func (f Fields) Logrus() logrus.Fields {
	return logrus.Fields(f.clone())
}
