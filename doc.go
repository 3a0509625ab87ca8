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

// Package amcache decodes Windows Amcache.hve application compatibility
// registry keys into timestamped forensic records.
//
// The Amcache hive exists in two incompatible generations. The early format
// ("legacy", Windows 8) stores file and program inventory under \Root\File
// and \Root\Programs with opaque numeric value names like "0", "f" or "101".
// The later format ("modern", Windows 10) stores the same inventory under
// \Root\InventoryApplicationFile and \Root\InventoryApplication with
// descriptive value names like "LowerCaseLongPath" or "InstallDate".
//
// The package consumes already decoded registry keys (a path, a last written
// time and a set of named, typed values) and produces one FileRecord or
// ProgramRecord per key, handed to a Sink as one or more (record, time,
// meaning) emissions. A single file record can carry up to four provenance
// timestamps, so a single key can produce up to four emissions referencing
// the same record.
//
// Opening and parsing the binary hive container is not part of this package,
// neither is storing or deduplicating the emitted events. See the
// amcachestore package for a sqlite backed Sink and the hivedump package for
// reading key dumps.
//
// Usage
//
// Parsers are constructed explicitly per schema generation:
//     legacy := amcache.NewLegacyParser(sink)
//     modern := amcache.NewModernParser(sink)
//     for _, key := range keys {
//         legacy.Route(&key)
//         modern.Route(&key)
//     }
// Keys that match neither generation are ignored.
package amcache
