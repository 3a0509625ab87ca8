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

package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forensicanalysis/amcache/amcachestore"
)

const exampleDump = `{"path": "\\Root\\File\\1f4\\a", "values": [{"name": "17", "data": 131277024000000000}, {"name": "15", "data": "c:\\windows\\system32\\svchost.exe"}, {"name": "12", "data": 131460650151772758}]}
{"path": "\\Root\\InventoryApplication\\0000f5", "last_written": "2018-02-07T13:30:03Z", "values": [{"name": "Name", "data": "Chocolatey"}, {"name": "InstallDate", "data": "01/15/2018 10:00:00"}]}
{"path": "\\Root\\Unrelated", "values": [{"name": "0", "data": "ignored"}]}
`

func setup(t *testing.T) (dir, dumpPath, storePath string) {
	dir, err := ioutil.TempDir("", "amcachecmd")
	require.NoError(t, err)

	dumpPath = filepath.Join(dir, "amcache.jsonl")
	err = ioutil.WriteFile(dumpPath, []byte(exampleDump), 0644)
	require.NoError(t, err)

	return dir, dumpPath, filepath.Join(dir, "example.amcachestore")
}

func TestProcessCommand(t *testing.T) {
	dir, dumpPath, storePath := setup(t)
	defer os.RemoveAll(dir)

	command := Process()
	command.SetArgs([]string{dumpPath, storePath})
	require.NoError(t, command.Execute())

	store, err := amcachestore.Open(storePath)
	require.NoError(t, err)
	defer store.Close()

	// 2 file emissions (key time, created) + 2 program emissions
	events, err := store.All()
	require.NoError(t, err)
	assert.Len(t, events, 4)

	files, err := store.Select("amcache-file")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	programs, err := store.Select("amcache-program")
	require.NoError(t, err)
	assert.Len(t, programs, 2)

	attached, err := store.LoadFile("amcache.jsonl")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(attached)
	require.NoError(t, err)
	require.NoError(t, attached.Close())
	assert.Equal(t, exampleDump, string(b))
}

func TestValidateCommand(t *testing.T) {
	dir, dumpPath, storePath := setup(t)
	defer os.RemoveAll(dir)

	command := Process()
	command.SetArgs([]string{dumpPath, storePath})
	require.NoError(t, command.Execute())

	validate := Validate()
	validate.SetArgs([]string{storePath})
	assert.NoError(t, validate.Execute())
}
