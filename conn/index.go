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

package conn

import (
	"github.com/google/btree"

	liberr "github.com/sabouaram/wsched/errors"
)

const btreeDegree = 32

// item adapts *Record to btree.Item, ordering purely by fd so insert and
// lookup share one comparison function; no in-order traversal is needed
// by the scheduler.
type item struct {
	rec *Record
}

func (i item) Less(than btree.Item) bool {
	return i.rec.Fd < than.(item).rec.Fd
}

// Index is a per-worker ordered map from socket fd to *Record, owned
// exclusively by its worker. It is not safe for concurrent use from more
// than one goroutine (I2: the owning worker is the only mutator).
type Index struct {
	t *btree.BTree
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{t: btree.New(btreeDegree)}
}

// Insert attaches rec under its own Fd. The index must never contain a
// duplicate fd — inserting one that already exists is an internal
// invariant violation, so it returns an error rather than silently
// overwriting, letting the caller abort the owning worker.
func (x *Index) Insert(rec *Record) error {
	if _, ok := x.Lookup(rec.Fd); ok {
		return liberr.Newf(0, "conn: duplicate fd %d in index", rec.Fd)
	}
	x.t.ReplaceOrInsert(item{rec: rec})
	return nil
}

// Lookup returns the Record indexed under fd, if any.
func (x *Index) Lookup(fd int) (*Record, bool) {
	found := x.t.Get(item{rec: &Record{Fd: fd}})
	if found == nil {
		return nil, false
	}
	return found.(item).rec, true
}

// Erase removes fd from the index. It does not free the Record or close
// the socket — callers (worker.drop) control that ordering explicitly.
func (x *Index) Erase(fd int) {
	x.t.Delete(item{rec: &Record{Fd: fd}})
}

// Len returns the number of live connections, i.e. accepted − closed for
// this worker.
func (x *Index) Len() int {
	return x.t.Len()
}

// Walk visits every Record in fd order; returning false from fn stops
// early. Used only by the timeout sweep and teardown, never on the
// per-event hot path.
func (x *Index) Walk(fn func(rec *Record) bool) {
	x.t.Ascend(func(i btree.Item) bool {
		return fn(i.(item).rec)
	})
}
