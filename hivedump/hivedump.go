// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

// Package hivedump reads registry key dumps in json lines format, one key
// per line:
//
//     {"path": "\\Root\\File\\1f4\\a", "last_written": "2017-05-12T12:23:35Z", "values": [
//         {"name": "15", "data": "c:\\windows\\system32\\svchost.exe"},
//         {"name": "17", "data": 131277024000000000},
//         {"name": "Files", "data": ["c:\\a.exe", "c:\\b.exe"]}]}
//
// last_written is either an RFC 3339 string or a FILETIME number. Such dumps
// are produced by registry parsing tools from the binary Amcache.hve
// container, which this module does not open itself.
package hivedump

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/amcache"
)

// ReadFile reads all registry keys from a json lines dump file.
func ReadFile(path string) ([]amcache.RegistryKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	keys, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return keys, nil
}

// Decode reads all registry keys from a json lines stream. Blank lines are
// skipped, an invalid line is an error.
func Decode(r io.Reader) ([]amcache.RegistryKey, error) {
	var keys []amcache.RegistryKey

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		if !gjson.Valid(text) {
			return nil, errors.Errorf("line %d is not valid json", line)
		}

		key, err := decodeKey(gjson.Parse(text))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func decodeKey(result gjson.Result) (amcache.RegistryKey, error) {
	key := amcache.RegistryKey{Path: result.Get("path").String()}
	if key.Path == "" {
		return key, errors.New("key requires a path")
	}

	lastWritten := result.Get("last_written")
	switch {
	case lastWritten.Type == gjson.Number:
		key.LastWrittenTime = amcache.FromFiletime(lastWritten.Int())
	case lastWritten.Type == gjson.String:
		t, err := time.Parse(time.RFC3339, lastWritten.String())
		if err != nil {
			return key, errors.Wrap(err, "could not parse last_written")
		}
		key.LastWrittenTime = t.UTC()
	}

	result.Get("values").ForEach(func(_, value gjson.Result) bool {
		key.Values = append(key.Values, amcache.RegistryValue{
			Name: value.Get("name").String(),
			Data: decodeData(value.Get("data")),
		})
		return true
	})

	return key, nil
}

func decodeData(data gjson.Result) interface{} {
	switch {
	case data.IsArray():
		var list []string
		for _, element := range data.Array() {
			list = append(list, element.String())
		}
		return list
	case data.Type == gjson.Number:
		return data.Int()
	case data.Type == gjson.String:
		return data.String()
	default:
		return nil
	}
}
