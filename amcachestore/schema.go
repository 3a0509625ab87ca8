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

package amcachestore

import (
	"encoding/json"

	"github.com/qri-io/jsonschema"
)

// Schemas holds the event validation schemas by event type.
var Schemas map[string]*jsonschema.Schema // nolint:gochecknoglobals

var schemaSources = map[string]string{ // nolint:gochecknoglobals
	"amcache-file": `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "amcache-file",
		"type": "object",
		"required": ["id", "type", "record_id", "time", "meaning"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "amcache-file"},
			"record_id": {"type": "string"},
			"time": {"type": "string"},
			"meaning": {"enum": ["creation", "modification", "installation", "change"]},
			"full_path": {"type": "string"},
			"sha1": {"type": "string"},
			"product_name": {"type": "string"},
			"company_name": {"type": "string"},
			"file_version": {"type": "string"},
			"language_code": {"type": "integer"},
			"file_size": {"type": "integer"},
			"file_description": {"type": "string"},
			"link_time": {"type": "integer"},
			"last_modified_time": {"type": "integer"},
			"created_time": {"type": "integer"},
			"program_id": {"type": "string"},
			"errors": {"type": "array"}
		}
	}`,
	"amcache-program": `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "amcache-program",
		"type": "object",
		"required": ["id", "type", "record_id", "time", "meaning"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "amcache-program"},
			"record_id": {"type": "string"},
			"time": {"type": "string"},
			"meaning": {"enum": ["creation", "modification", "installation", "change"]},
			"name": {"type": "string"},
			"version": {"type": "string"},
			"publisher": {"type": "string"},
			"language_code": {"type": ["integer", "string"]},
			"entry_type": {"type": "string"},
			"uninstall_key": {"type": "string"},
			"file_paths": {"type": "string"},
			"product_code": {"type": "string"},
			"package_code": {"type": "string"},
			"msi_product_code": {"type": "string"},
			"msi_package_code": {"type": "string"},
			"files": {"type": "string"},
			"os_at_install": {"type": "string"},
			"errors": {"type": "array"}
		}
	}`,
}

func init() { // nolint:gochecknoinits
	Schemas = make(map[string]*jsonschema.Schema)
	for name, content := range schemaSources {
		schema := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(content), schema); err != nil {
			panic(err)
		}
		Schemas[name] = schema
	}
}
