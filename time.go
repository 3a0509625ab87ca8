/*
 * Copyright (c) 2020 Siemens AG
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 *
 * Author(s): Jonas Plum
 */

package amcache

import (
	"time"

	"github.com/pkg/errors"
)

// Meaning is the semantic of a single emitted timestamp.
type Meaning string

// The timestamp semantics amcache records can carry.
const (
	Creation     Meaning = "creation"
	Modification Meaning = "modification"
	Installation Meaning = "installation"
	Change       Meaning = "change"
)

// filetimeEpochDiff is the number of 100ns ticks between the FILETIME epoch
// (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDiff = 116444736000000000

// FromFiletime converts a Windows FILETIME, a count of 100ns ticks since
// 1601-01-01 UTC, into a time.Time. The tick count is split into seconds and
// a sub-second remainder before scaling to nanoseconds, a single
// nanosecond-scaled offset from the Unix epoch would not cover the full
// FILETIME range.
func FromFiletime(ticks int64) time.Time {
	d := ticks - filetimeEpochDiff
	return time.Unix(d/1e7, (d%1e7)*100).UTC()
}

// FromUnixTime converts a count of seconds since 1970-01-01 UTC into a
// time.Time.
func FromUnixTime(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

// dateStringLayout is the locale formatted date encoding modern amcache
// producers use for LinkDate and InstallDate values.
const dateStringLayout = "01/02/2006 15:04:05"

// ParseDateString parses an "MM/DD/YYYY HH:MM:SS" value into a UTC time. An
// empty string reports ok == false, the field is absent. A malformed non
// empty string is an error for that field only.
func ParseDateString(s string) (t time.Time, ok bool, err error) {
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(dateStringLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false, errors.Errorf("%q does not match %s", s, dateStringLayout)
	}
	return t, true, nil
}
