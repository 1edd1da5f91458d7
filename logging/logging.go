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

package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config controls the base logger every worker and the supervisor derive
// their entries from.
type Config struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// New builds a logrus.Logger from Config. An unparseable Level falls back
// to InfoLevel rather than failing startup over a typo in a config file.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()

	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stderr)
	}

	if cfg.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}

// WithWorker returns an entry tagged with the emitting worker's index, so
// every log line from a worker's event loop can be filtered by it.
func WithWorker(l logrus.FieldLogger, idx int) *logrus.Entry {
	return l.WithFields(NewFields().Add("worker_idx", idx).Logrus())
}

// WithConn extends a worker-scoped entry with the fd the line concerns.
func WithConn(l logrus.FieldLogger, fd int) *logrus.Entry {
	return l.WithFields(NewFields().Add("fd", fd).Logrus())
}
