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

import (
	"fmt"
	"path"
	"runtime"
	"strings"
)

var currPkg = func() string {
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return path.Dir(fn.Name())
}()

// getFrame walks the call stack to find the first frame outside this
// package, so the captured trace points at the caller of New/Newf rather
// than at errors.go itself.
func getFrame() runtime.Frame {
	pcs := make([]uintptr, 20)
	n := runtime.Callers(2, pcs)

	if n > 0 {
		frames := runtime.CallersFrames(pcs[:n])
		more := true

		for more {
			var frame runtime.Frame
			frame, more = frames.Next()

			if currPkg != "" && strings.Contains(frame.Function, currPkg) {
				continue
			}

			return runtime.Frame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			}
		}
	}

	return getNilFrame()
}

func getNilFrame() runtime.Frame {
	return runtime.Frame{}
}

func frameAt(file string, line int) runtime.Frame {
	return runtime.Frame{File: file, Line: line}
}

func filterPath(pathname string) string {
	if i := strings.LastIndex(pathname, "/pkg/mod/"); i != -1 {
		pathname = pathname[i+len("/pkg/mod/"):]
	}
	return path.Clean(pathname)
}

func traceString(f runtime.Frame) string {
	if f.File != "" {
		return fmt.Sprintf("%s#%d", filterPath(f.File), f.Line)
	} else if f.Function != "" {
		return fmt.Sprintf("%s#%d", f.Function, f.Line)
	}
	return ""
}
