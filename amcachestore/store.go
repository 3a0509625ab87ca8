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

// Package amcachestore stores the events emitted by the amcache decoders in
// a sqlite database (a folder with an events.db file and optional attachment
// folders). Every emission becomes one event row; the events of one record
// share a record_id. The store implements amcache.Sink.
package amcachestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"crawshaw.io/sqlite"
	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stoewer/go-strcase"
	"github.com/tidwall/gjson"

	"github.com/forensicanalysis/amcache"
)

const storeVersion = 1
const amcacheApplicationID = 1634558769
const databaseName = "events.db"
const discriminator = "type"

// JSONEvent is a single event row in the database.
type JSONEvent []byte

// Event is a single event as a json object.
type Event map[string]interface{}

// The Store holds the timestamped events decoded from one amcache hive. It
// is the destination of the amcache parsers and can be queried afterwards.
type Store struct {
	fs        afero.Fs
	cursor    *sqlite.Conn
	types     *typeMap
	emitMutex sync.Mutex
	emitErr   error
}

var ErrStoreExists = fmt.Errorf("store already exists")
var ErrStoreNotExists = fmt.Errorf("store does not exist")

// New creates a new Store.
func New(url string) (*Store, error) {
	return open(url, true)
}

// Open opens an existing Store.
func Open(url string) (*Store, error) {
	return open(url, false)
}

func open(url string, create bool) (*Store, error) { // nolint:gocyclo,funlen
	store := &Store{}
	database := url

	if url == ":memory:" {
		store.fs = afero.NewMemMapFs()
	} else {
		url = strings.TrimRight(url, "/")
		database = filepath.Join(url, databaseName)

		exists := true
		_, err := os.Stat(database)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			exists = false
		}

		if create && exists {
			return nil, ErrStoreExists
		}
		if !create && !exists {
			return nil, ErrStoreNotExists
		}

		if create {
			err = os.MkdirAll(url, 0750)
			if err != nil {
				return nil, err
			}

			log.Printf("Creating store %s", url)
			_, err := os.Create(database)
			if err != nil {
				return nil, err
			}
		}

		store.fs = afero.NewBasePathFs(afero.NewOsFs(), url)
	}

	var err error
	store.cursor, err = sqlite.OpenConn(database, 0)
	if err != nil {
		return nil, err
	}

	if create {
		err = setPragma(store.cursor, "application_id", amcacheApplicationID)
		if err != nil {
			return nil, err
		}

		err = setPragma(store.cursor, "user_version", storeVersion)
		if err != nil {
			return nil, err
		}

		err = store.exec("CREATE VIRTUAL TABLE `events` " +
			"USING fts5(id UNINDEXED, json, insert_time UNINDEXED, tokenize=\"unicode61 tokenchars '/.'\")")
		if err != nil {
			return nil, err
		}
	} else {
		applicationID, err := pragma(store.cursor, "application_id")
		if err != nil {
			return nil, err
		}
		if applicationID != amcacheApplicationID {
			msg := "wrong file format (application_id is %d, requires %d)"
			return nil, fmt.Errorf(msg, applicationID, amcacheApplicationID)
		}

		version, err := pragma(store.cursor, "user_version")
		if err != nil {
			return nil, err
		}
		if version != storeVersion {
			msg := "wrong file format (user_version is %d, requires %d)"
			return nil, fmt.Errorf(msg, version, storeVersion)
		}
	}

	store.types = newTypeMap()
	err = store.setupTypes()
	if err != nil {
		return nil, err
	}

	return store, nil
}

// SetFS replaces the attachment file system.
func (store *Store) SetFS(fs afero.Fs) {
	store.fs = fs
}

/* ################################
#   Sink
################################ */

// Emit stores a single (record, time, meaning) emission as an event. Emit is
// safe for concurrent use, the single sqlite connection is serialized behind
// the store's mutex. The amcache decoders observe no return value, a failed
// insert is logged and kept as the store's first emit error, see Err.
func (store *Store) Emit(record interface{}, t time.Time, meaning amcache.Meaning) {
	event := Event(lower(structs.Map(record)).(map[string]interface{}))
	if id, ok := event["id"]; ok {
		event["record_id"] = id
	}
	event["id"] = "event--" + uuid.New().String()
	event["time"] = t.UTC().Format(time.RFC3339)
	event["meaning"] = string(meaning)

	store.emitMutex.Lock()
	defer store.emitMutex.Unlock()
	if _, err := store.Insert(event); err != nil {
		if store.emitErr == nil {
			store.emitErr = err
		}
		log.Printf("could not store emission: %s", err)
	}
}

// Err returns the first error of any previous Emit.
func (store *Store) Err() error {
	store.emitMutex.Lock()
	defer store.emitMutex.Unlock()
	return store.emitErr
}

/* ################################
#   API
################################ */

// Insert adds a single event.
func (store *Store) Insert(event Event) (string, error) {
	eventType, ok := event[discriminator].(string)
	if !ok {
		return "", errors.New("event requires a type")
	}

	id, ok := event["id"].(string)
	if !ok {
		id = eventType + "--" + uuid.New().String()
		event["id"] = id
	}

	b, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	valErr, err := validateSchema(eventType, b)
	if err != nil {
		return "", errors.Wrap(err, "validation failed")
	}
	if len(valErr) > 0 {
		return "", fmt.Errorf("event could not be validated [%s]", strings.Join(valErr, ","))
	}

	store.types.addAll(eventType, event)

	query := "INSERT INTO `events` (id, json, insert_time) VALUES ($id, $json, $time)" // #nosec
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("could not prepare statement %s", query))
	}
	stmt.SetText("$id", id)
	stmt.SetText("$json", string(b))
	stmt.SetText("$time", time.Now().Format("2006-01-02T15:04:05.000Z"))
	_, err = stmt.Step()
	if err != nil {
		return "", errors.Wrap(err, fmt.Sprint("could not exec statement ", query))
	}

	return id, nil
}

// Get retrieves a single event.
func (store *Store) Get(id string) (JSONEvent, error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM `events` WHERE id=?") // #nosec
	if err != nil {
		return nil, err
	}

	stmt.BindText(1, id)

	events, err := store.rowsToEvents(stmt)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		return events[0], nil
	}
	return nil, errors.New("event does not exist")
}

// Select retrieves all events of one type.
func (store *Store) Select(eventType string) ([]JSONEvent, error) {
	query := fmt.Sprintf("SELECT json FROM `events` WHERE json_extract(json, '$.%s') = ?", discriminator) // #nosec
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return nil, err
	}
	stmt.BindText(1, eventType)

	return store.rowsToEvents(stmt)
}

// All returns every event.
func (store *Store) All() ([]JSONEvent, error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM `events`")
	if err != nil {
		return nil, err
	}
	return store.rowsToEvents(stmt)
}

// Query executes a sql query.
func (store *Store) Query(query string) ([]JSONEvent, error) {
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return nil, err
	}

	return store.rowsToEvents(stmt)
}

// Search runs a full text search over all events.
func (store *Store) Search(q string) ([]JSONEvent, error) {
	stmt, err := store.cursor.Prepare("SELECT json FROM events WHERE events = $query")
	if err != nil {
		return nil, err
	}
	stmt.SetText("$query", q)
	return store.rowsToEvents(stmt)
}

// StoreFile adds an attachment file, e.g. the source hive or its dump, next
// to the database.
func (store *Store) StoreFile(filePath string) (storePath string, file io.WriteCloser, err error) {
	err = store.fs.MkdirAll(filepath.Dir(filePath), 0755)
	if err != nil {
		return "", nil, err
	}

	i := 0
	ext := filepath.Ext(filePath)
	attachmentPath := filePath
	base := attachmentPath[:len(attachmentPath)-len(ext)]

	exists, err := afero.Exists(store.fs, attachmentPath)
	if err != nil {
		return "", nil, err
	}
	for exists {
		attachmentPath = fmt.Sprintf("%s_%d%s", base, i, ext)
		i++
		exists, err = afero.Exists(store.fs, attachmentPath)
		if err != nil {
			return "", nil, err
		}
	}

	file, err = store.fs.Create(attachmentPath)
	return attachmentPath, file, err
}

// LoadFile opens an attachment file.
func (store *Store) LoadFile(filePath string) (io.ReadCloser, error) {
	return store.fs.Open(filePath)
}

// Close saves and closes the database.
func (store *Store) Close() error {
	if store.types.changed {
		_ = store.createViews()
	}

	return store.cursor.Close()
}

func (store *Store) createViews() error {
	for typeName, fields := range store.types.all() {
		err := store.exec(fmt.Sprintf("DROP VIEW IF EXISTS '%s'", typeName))
		if err != nil {
			return err
		}
		var columns []string
		for field := range fields {
			columns = append(columns, fmt.Sprintf("json_extract(json, '$.%s') as '%s'", field, field))
		}
		sort.Strings(columns)
		err = store.exec(
			fmt.Sprintf("CREATE VIEW '%s' AS SELECT %s FROM events WHERE json_extract(json, '$.%s') = '%s'",
				typeName, strings.Join(columns, ", "), discriminator, typeName),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

/* ################################
#   Validate
################################ */

// Validate checks every event in the database against its schema.
func (store *Store) Validate() (flaws []string, err error) {
	flaws = []string{}

	events, err := store.All()
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		eventType := gjson.GetBytes(event, discriminator)
		if !eventType.Exists() {
			flaws = append(flaws, "event needs to have a type")
			continue
		}

		valErr, err := validateSchema(eventType.String(), event)
		if err != nil {
			return nil, err
		}
		flaws = append(flaws, valErr...)
	}
	return flaws, nil
}

func validateSchema(eventType string, event []byte) (flaws []string, err error) {
	schema, ok := Schemas[eventType]
	if !ok {
		return nil, nil // no schema for event
	}

	keyErrs, err := schema.ValidateBytes(context.Background(), event)
	if err != nil {
		return nil, err
	}
	for _, verr := range keyErrs {
		flaws = append(flaws, fmt.Sprintf("failed to validate event: %s", verr.Message))
	}
	return flaws, nil
}

/* ################################
#   Intern
################################ */

func (store *Store) rowsToEvents(stmt *sqlite.Stmt) ([]JSONEvent, error) {
	events := []JSONEvent{}
	for {
		if hasRow, err := stmt.Step(); err != nil {
			return nil, err
		} else if !hasRow {
			break
		}
		events = append(events, JSONEvent(stmt.GetText("json")))
	}
	return events, stmt.Finalize()
}

func isEventTable(name string) bool {
	if strings.HasPrefix(name, "sqlite") || strings.HasPrefix(name, "_") {
		return false
	}
	if name == "events" {
		return false
	}

	for _, suffix := range []string{"_data", "_idx", "_content", "_docsize", "_config"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

func (store *Store) setupTypes() error {
	stmt, err := store.cursor.Prepare("SELECT name FROM sqlite_master")
	if err != nil {
		return err
	}

	for {
		if hasRow, err := stmt.Step(); err != nil {
			return err
		} else if !hasRow {
			break
		}

		name := stmt.GetText("name")

		if !isEventTable(name) {
			continue
		}

		pragmaStmt, err := store.cursor.Prepare(fmt.Sprintf("PRAGMA table_info (\"%s\")", name))
		if err != nil {
			return err
		}

		for {
			if pragmaHasRow, err := pragmaStmt.Step(); err != nil {
				return err
			} else if !pragmaHasRow {
				break
			}

			columnName := pragmaStmt.GetText("name")
			store.types.add(name, columnName)
		}
		err = pragmaStmt.Finalize()
		if err != nil {
			return err
		}
	}

	return stmt.Finalize()
}

func (store *Store) exec(query string) error {
	stmt, err := store.cursor.Prepare(query)
	if err != nil {
		return err
	}

	_, err = stmt.Step()
	if err != nil {
		return err
	}

	return stmt.Finalize()
}

func pragma(conn *sqlite.Conn, name string) (int64, error) {
	stmt, err := conn.Prepare("PRAGMA " + name)
	if err != nil {
		return 0, err
	}
	_, err = stmt.Step()
	if err != nil {
		return 0, err
	}
	i := stmt.GetInt64(name)
	return i, stmt.Finalize()
}

func setPragma(conn *sqlite.Conn, name string, i int64) error {
	stmt, err := conn.Prepare("PRAGMA " + name + " = " + fmt.Sprint(i))
	if err != nil {
		return err
	}
	_, err = stmt.Step()
	if err != nil {
		return err
	}
	return stmt.Finalize()
}

func lower(f interface{}) interface{} {
	switch f := f.(type) {
	case []interface{}:
		for i := range f {
			if !isEmptyValue(reflect.ValueOf(f[i])) {
				f[i] = lower(f[i])
			}
		}
		return f
	case map[string]interface{}:
		lf := make(map[string]interface{}, len(f))
		for k, v := range f {
			if !isEmptyValue(reflect.ValueOf(v)) {
				lf[strcase.SnakeCase(k)] = lower(v)
			}
		}
		return lf
	default:
		return f
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
