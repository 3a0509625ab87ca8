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

package amcache

import (
	"strings"
	"time"
)

// A Sink receives the decoded emissions. One record can be emitted several
// times with distinct times and meanings. The sink owns the record once it is
// emitted and is responsible for any ordering or deduplication across keys.
type Sink interface {
	Emit(record interface{}, t time.Time, meaning Meaning)
}

type route struct {
	prefix string
	handle func(*RegistryKey)
}

// A Parser decodes the amcache registry keys of one schema generation and
// hands the resulting records to its Sink. Parsers hold no state across keys
// and can be reused for any number of keys.
type Parser struct {
	sink   Sink
	routes []route
}

// NewLegacyParser creates a Parser for the early amcache format found on
// Windows 8, keyed by opaque numeric value names.
func NewLegacyParser(sink Sink) *Parser {
	p := &Parser{sink: sink}
	p.routes = []route{
		{legacyFileKeyPrefix, p.decodeFileKey},
		{legacyProgramKeyPrefix, p.decodeProgramKey},
	}
	return p
}

// NewModernParser creates a Parser for the later amcache format found on
// Windows 10, keyed by descriptive value names.
func NewModernParser(sink Sink) *Parser {
	p := &Parser{sink: sink}
	// InventoryApplication is a prefix of InventoryApplicationFile, so the
	// file route must come first.
	p.routes = []route{
		{modernFileKeyPrefix, p.decodeInventoryFileKey},
		{modernProgramKeyPrefix, p.decodeInventoryProgramKey},
	}
	return p
}

// Parsers creates one Parser per schema generation, all emitting into the
// same sink.
func Parsers(sink Sink) map[string]*Parser {
	return map[string]*Parser{
		"legacy": NewLegacyParser(sink),
		"modern": NewModernParser(sink),
	}
}

// Route decodes a single registry key. Keys without values and keys whose
// path matches neither of the parser's prefixes are ignored, the upstream
// dispatcher is expected to pre filter paths.
func (p *Parser) Route(key *RegistryKey) {
	if len(key.Values) == 0 {
		return
	}
	for _, r := range p.routes {
		if strings.HasPrefix(key.Path, r.prefix) {
			r.handle(key)
			return
		}
	}
}
