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

package amcachestore

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/amcache"
)

func testFileKey() *amcache.RegistryKey {
	return &amcache.RegistryKey{
		Path: `\Root\File\1f4\341f75a`,
		Values: []amcache.RegistryValue{
			{Name: "17", Data: int64(131277024000000000)},
			{Name: "15", Data: "c:\\windows\\system32\\svchost.exe"},
			{Name: "101", Data: "000082274eef0911a948f91425f5e5b0e730517fe75e"},
			{Name: "12", Data: int64(131460650151772758)},
			{Name: "11", Data: int64(131460650153024523)},
			{Name: "f", Data: int64(708992537)},
		},
	}
}

func TestNew(t *testing.T) {
	dir, err := ioutil.TempDir("", t.Name())
	require.NoError(t, err)

	url := filepath.Join(dir, "example.amcachestore")
	store, err := New(url)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = New(url)
	assert.Equal(t, ErrStoreExists, err)

	store, err = Open(url)
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	_, err = Open(filepath.Join(dir, "missing.amcachestore"))
	assert.Equal(t, ErrStoreNotExists, err)
}

func TestStoreEmit(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	parser := amcache.NewLegacyParser(store)
	parser.Route(testFileKey())

	assert.NoError(t, store.Err())

	events, err := store.Select(amcache.FileRecordType)
	require.NoError(t, err)
	require.Len(t, events, 4)

	recordID := gjson.GetBytes(events[0], "record_id").String()
	assert.True(t, strings.HasPrefix(recordID, amcache.FileRecordType+"--"))
	for _, event := range events {
		assert.Equal(t, recordID, gjson.GetBytes(event, "record_id").String())
		assert.Equal(t, "82274eef0911a948f91425f5e5b0e730517fe75e", gjson.GetBytes(event, "sha1").String())
	}

	assert.Equal(t, "modification", gjson.GetBytes(events[0], "meaning").String())
	assert.Equal(t, "2017-01-01T00:00:00Z", gjson.GetBytes(events[0], "time").String())

	flaws, err := store.Validate()
	require.NoError(t, err)
	assert.Empty(t, flaws)
}

func TestStoreEmitConcurrent(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			parser := amcache.NewLegacyParser(store)
			parser.Route(testFileKey())
		}()
	}
	wg.Wait()

	require.NoError(t, store.Err())
	events, err := store.Select(amcache.FileRecordType)
	require.NoError(t, err)
	assert.Len(t, events, 8*4)
}

func TestStoreQueries(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	store.Emit(amcache.NewProgramRecord(), time.Unix(1381387764, 0), amcache.Installation)
	require.NoError(t, store.Err())

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 1)

	id := gjson.GetBytes(all[0], "id").String()
	event, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, amcache.ProgramRecordType, gjson.GetBytes(event, "type").String())

	_, err = store.Get("event--00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)

	rows, err := store.Query("SELECT json FROM events WHERE json_extract(json, '$.meaning') = 'installation'")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStoreInsert(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Insert(Event{"name": "no type"})
	assert.Error(t, err)

	// schema validation rejects an amcache event without its envelope fields
	_, err = store.Insert(Event{"type": amcache.FileRecordType, "full_path": "c:\\a.exe"})
	assert.Error(t, err)

	// types without a schema are accepted as is
	id, err := store.Insert(Event{"type": "note", "text": "imported"})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "note--"))
}

func TestStoreFile(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	storePath, file, err := store.StoreFile("dumps/amcache.jsonl")
	require.NoError(t, err)
	_, err = file.Write([]byte("{}"))
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "dumps/amcache.jsonl", storePath)

	// a second file with the same name gets a suffix
	storePath, file, err = store.StoreFile("dumps/amcache.jsonl")
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "dumps/amcache_0.jsonl", storePath)

	load, err := store.LoadFile("dumps/amcache.jsonl")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(load)
	require.NoError(t, err)
	require.NoError(t, load.Close())
	assert.Equal(t, "{}", string(b))
}
