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

package hivedump

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleDump = `{"path": "\\Root\\File\\1f4\\a", "last_written": 131277024000000000, "values": [{"name": "15", "data": "c:\\windows\\system32\\svchost.exe"}, {"name": "17", "data": 131277024000000000}]}

{"path": "\\Root\\InventoryApplication\\0000f5", "last_written": "2018-02-07T13:30:03Z", "values": [{"name": "Name", "data": "Chocolatey"}, {"name": "Empty", "data": null}, {"name": "Files", "data": ["c:\\a.exe", "c:\\b.exe"]}]}
`

func TestDecode(t *testing.T) {
	keys, err := Decode(strings.NewReader(exampleDump))
	require.NoError(t, err)
	require.Len(t, keys, 2)

	assert.Equal(t, `\Root\File\1f4\a`, keys[0].Path)
	assert.Equal(t, time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), keys[0].LastWrittenTime)
	require.Len(t, keys[0].Values, 2)
	assert.Equal(t, "15", keys[0].Values[0].Name)
	assert.Equal(t, "c:\\windows\\system32\\svchost.exe", keys[0].Values[0].Data)
	assert.Equal(t, int64(131277024000000000), keys[0].Values[1].Data)

	assert.Equal(t, time.Date(2018, 2, 7, 13, 30, 3, 0, time.UTC), keys[1].LastWrittenTime)
	require.Len(t, keys[1].Values, 3)
	assert.Nil(t, keys[1].Values[1].Data)
	assert.Equal(t, []string{"c:\\a.exe", "c:\\b.exe"}, keys[1].Values[2].Data)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		dump string
	}{
		{"invalid json", "{"},
		{"missing path", `{"values": []}`},
		{"bad last_written", `{"path": "\\Root\\File\\a", "last_written": "yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.dump))
			assert.Error(t, err)
		})
	}
}

func TestReadFile(t *testing.T) {
	_, err := ReadFile("does-not-exist.jsonl")
	assert.Error(t, err)
}
