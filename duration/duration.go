/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package duration wraps time.Duration with viper/JSON/YAML-friendly
// encoding, so scheduler timeouts (connection idle, keep-alive, request)
// can be written in config files as plain strings ("30s", "2m") instead of
// raw nanosecond integers.
package duration

import (
	"math"
	"strings"
	"time"
)

type Duration time.Duration

// Parse parses a Go duration string ("300ms", "30s", "2m") into a Duration.
func Parse(s string) (Duration, error) {
	return parseString(s)
}

// ParseByte is Parse over a byte slice, for use from Unmarshal hooks.
func ParseByte(p []byte) (Duration, error) {
	return parseString(string(p))
}

func parseString(s string) (Duration, error) {
	s = strings.Trim(s, `"'`)
	v, e := time.ParseDuration(s)
	if e != nil {
		return 0, e
	}
	return Duration(v), nil
}

func (d *Duration) unmarshall(val []byte) error {
	tmp, err := ParseByte(val)
	if err != nil {
		return err
	}
	*d = tmp
	return nil
}

// Seconds returns a Duration representing i seconds.
func Seconds(i int64) Duration {
	return Duration(time.Duration(i) * time.Second)
}

// Minutes returns a Duration representing i minutes.
func Minutes(i int64) Duration {
	return Duration(time.Duration(i) * time.Minute)
}

// Hours returns a Duration representing i hours.
func Hours(i int64) Duration {
	return Duration(time.Duration(i) * time.Hour)
}

// ParseDuration wraps a time.Duration as a Duration.
func ParseDuration(d time.Duration) Duration {
	return Duration(d)
}

// ParseFloat64 returns a Duration representing f nanoseconds, clamped to
// time.Duration's range.
func ParseFloat64(f float64) Duration {
	const (
		mx float64 = math.MaxInt64
		mi         = -mx
	)

	if f > mx {
		return Duration(math.MaxInt64)
	} else if f < mi {
		return Duration(-math.MaxInt64)
	}
	return Duration(math.Round(f))
}

// Time returns the time.Duration equivalent.
func (d Duration) Time() time.Duration {
	return time.Duration(d)
}

// Float64 returns the duration in nanoseconds as a float64.
func (d Duration) Float64() float64 {
	return float64(d)
}

// String returns the time.Duration string representation ("1h30m0s").
func (d Duration) String() string {
	return d.Time().String()
}

// IsZero reports whether the duration is zero, the sentinel scheduler
// code uses for "no timeout configured".
func (d Duration) IsZero() bool {
	return d == 0
}
