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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// RegistryKey is a single, already decoded registry key. It is supplied by
// the caller per Route invocation and read only.
type RegistryKey struct {
	Path            string
	LastWrittenTime time.Time
	Values          []RegistryValue
}

// RegistryValue is a single named value of a registry key. Data is one of
// string, int64, uint64, []string or nil.
type RegistryValue struct {
	Name string
	Data interface{}
}

// MalformedFieldError reports a value that exists under a known name but
// cannot be decoded under its schema rule. It is scoped to the single field,
// the surrounding record stays valid.
type MalformedFieldError struct {
	Field  string
	Reason string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed amcache field %q: %s", e.Field, e.Reason)
}

// decodeString renders any raw value payload as text.
func decodeString(data interface{}) string {
	switch data := data.(type) {
	case nil:
		return ""
	case string:
		return data
	case int64:
		return strconv.FormatInt(data, 10)
	case uint64:
		return strconv.FormatUint(data, 10)
	case []string:
		return strings.Join(data, "\n")
	default:
		return fmt.Sprint(data)
	}
}

// decodeInt interprets a raw value as an integer. Textual payloads are parsed
// as base 10 first and reparsed as base 16 on failure, because amcache
// producers emit both encodings without marking them.
func decodeInt(data interface{}) (int64, error) {
	switch data := data.(type) {
	case int64:
		return data, nil
	case uint64:
		return int64(data), nil
	case string:
		if i, err := strconv.ParseInt(data, 10, 64); err == nil {
			return i, nil
		}
		i, err := strconv.ParseInt(data, 16, 64)
		if err != nil {
			return 0, errors.Errorf("%q is neither a decimal nor a hex number", data)
		}
		return i, nil
	case nil:
		return 0, errors.New("no data")
	default:
		return 0, errors.Errorf("%T is not a number", data)
	}
}

// decodeIntStrict interprets a raw value as an integer without the hex
// fallback. Used where a non numeric payload falls back to its raw text, a
// hex reparse would turn text like "1a" into a number there.
func decodeIntStrict(data interface{}) (int64, error) {
	switch data := data.(type) {
	case int64:
		return data, nil
	case uint64:
		return int64(data), nil
	case string:
		i, err := strconv.ParseInt(data, 10, 64)
		if err != nil {
			return 0, errors.Errorf("%q is not a decimal number", data)
		}
		return i, nil
	case nil:
		return 0, errors.New("no data")
	default:
		return 0, errors.Errorf("%T is not a number", data)
	}
}

// hashPrefixSize is the fixed width of the algorithm identifier amcache
// producers prepend to stored hashes.
const hashPrefixSize = 4

// decodeHash renders a raw value as text and strips the algorithm identifier
// prefix, leaving the bare hash.
func decodeHash(data interface{}) (string, error) {
	s := decodeString(data)
	if len(s) < hashPrefixSize {
		return "", errors.Errorf("hash %q is shorter than its %d character prefix", s, hashPrefixSize)
	}
	return s[hashPrefixSize:], nil
}

// decodeStringList joins a multi valued payload with newlines, preserving the
// source order. A nil payload reports ok == false so the field stays unset.
func decodeStringList(data interface{}) (joined string, ok bool) {
	switch data := data.(type) {
	case nil:
		return "", false
	case []string:
		return strings.Join(data, "\n"), true
	default:
		return decodeString(data), true
	}
}
