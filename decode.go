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

import "time"

// scanned is the decoded form of a single registry value.
type scanned struct {
	text  string
	num   int64
	isNum bool
	date  time.Time
}

// scanValues makes a single pass over the values of a key. Every value whose
// name appears in the field table is decoded under the table's rule and
// handed to assign. Unknown names are ignored. A value that cannot be decoded
// is reported through addError and leaves its field unset, the scan
// continues.
func scanValues(values []RegistryValue, table map[string]fieldRule, assign func(fieldID, scanned), addError func(string)) {
	for _, value := range values {
		rule, ok := table[value.Name]
		if !ok {
			continue
		}
		switch rule.kind {
		case kindString:
			assign(rule.field, scanned{text: decodeString(value.Data)})
		case kindInt:
			n, err := decodeInt(value.Data)
			if err != nil {
				addError((&MalformedFieldError{Field: value.Name, Reason: err.Error()}).Error())
				continue
			}
			assign(rule.field, scanned{num: n, isNum: true})
		case kindIntOrText:
			if n, err := decodeIntStrict(value.Data); err == nil {
				assign(rule.field, scanned{num: n, isNum: true})
			} else {
				assign(rule.field, scanned{text: decodeString(value.Data)})
			}
		case kindHash:
			s, err := decodeHash(value.Data)
			if err != nil {
				addError((&MalformedFieldError{Field: value.Name, Reason: err.Error()}).Error())
				continue
			}
			assign(rule.field, scanned{text: s})
		case kindStringList:
			s, ok := decodeStringList(value.Data)
			if !ok {
				continue
			}
			assign(rule.field, scanned{text: s})
		case kindDateString:
			t, ok, err := ParseDateString(decodeString(value.Data))
			if err != nil {
				addError((&MalformedFieldError{Field: value.Name, Reason: err.Error()}).Error())
				continue
			}
			if !ok {
				continue
			}
			assign(rule.field, scanned{num: t.Unix(), isNum: true, date: t})
		}
	}
}

func assignFileField(record *FileRecord, field fieldID, v scanned) {
	switch field {
	case fieldFullPath:
		record.FullPath = v.text
	case fieldSHA1:
		record.SHA1 = v.text
	case fieldProductName:
		record.ProductName = v.text
	case fieldCompanyName:
		record.CompanyName = v.text
	case fieldFileVersion:
		record.FileVersion = v.text
	case fieldLanguageCode:
		record.LanguageCode = v.num
	case fieldFileSize:
		record.FileSize = v.num
	case fieldFileDescription:
		record.FileDescription = v.text
	case fieldLinkTime:
		record.LinkTime = v.num
	case fieldLastModifiedTime:
		record.LastModifiedTime = v.num
	case fieldCreatedTime:
		record.CreatedTime = v.num
	case fieldProgramID:
		record.ProgramID = v.text
	}
}

func assignProgramField(record *ProgramRecord, field fieldID, v scanned) {
	switch field {
	case fieldName:
		record.Name = v.text
	case fieldVersion:
		record.Version = v.text
	case fieldPublisher:
		record.Publisher = v.text
	case fieldLanguageCode:
		if v.isNum {
			record.LanguageCode = v.num
		} else {
			record.LanguageCode = v.text
		}
	case fieldEntryType:
		record.EntryType = v.text
	case fieldUninstallKey:
		record.UninstallKey = v.text
	case fieldFilePaths:
		record.FilePaths = v.text
	case fieldProductCode:
		record.ProductCode = v.text
	case fieldPackageCode:
		record.PackageCode = v.text
	case fieldMsiProductCode:
		record.MsiProductCode = v.text
	case fieldMsiPackageCode:
		record.MsiPackageCode = v.text
	case fieldFiles:
		record.Files = v.text
	case fieldOSAtInstall:
		record.OSAtInstall = v.text
	}
}

// decodeFileKey decodes a legacy \Root\File key. The key's own timestamp is
// stored in value "17" as a FILETIME and always emitted as a modification.
// The created, last modified and linker timestamps are only emitted when
// present and nonzero; a last modified time equal to the key timestamp is
// still emitted a second time.
func (p *Parser) decodeFileKey(key *RegistryKey) {
	record := NewFileRecord()
	var keyTime int64

	scanValues(key.Values, legacyFileFields, func(field fieldID, v scanned) {
		if field == fieldKeyTime {
			keyTime = v.num
			return
		}
		assignFileField(record, field, v)
	}, func(msg string) { record.AddError(msg) })

	p.sink.Emit(record, FromFiletime(keyTime), Modification)

	if record.CreatedTime != 0 {
		p.sink.Emit(record, FromFiletime(record.CreatedTime), Creation)
	}
	if record.LastModifiedTime != 0 {
		p.sink.Emit(record, FromFiletime(record.LastModifiedTime), Modification)
	}
	if record.LinkTime != 0 {
		p.sink.Emit(record, FromUnixTime(record.LinkTime), Change)
	}
}

// decodeProgramKey decodes a legacy \Root\Programs key. The installation
// date in value "a" defaults to zero and is emitted exactly once, even when
// zero.
func (p *Parser) decodeProgramKey(key *RegistryKey) {
	record := NewProgramRecord()
	var installDate int64

	scanValues(key.Values, legacyProgramFields, func(field fieldID, v scanned) {
		if field == fieldInstallDate {
			installDate = v.num
			return
		}
		assignProgramField(record, field, v)
	}, func(msg string) { record.AddError(msg) })

	p.sink.Emit(record, FromUnixTime(installDate), Installation)
}

// decodeInventoryFileKey decodes a modern \Root\InventoryApplicationFile
// key. The key's last written time is the modification emission. A LinkDate
// value that parses to a nonzero date produces an additional creation
// emission on the same record.
func (p *Parser) decodeInventoryFileKey(key *RegistryKey) {
	record := NewFileRecord()
	var linkDate int64

	scanValues(key.Values, modernFileFields, func(field fieldID, v scanned) {
		if field == fieldLinkDate {
			linkDate = v.num
			return
		}
		assignFileField(record, field, v)
	}, func(msg string) { record.AddError(msg) })

	p.sink.Emit(record, key.LastWrittenTime, Modification)

	if linkDate != 0 {
		p.sink.Emit(record, FromUnixTime(linkDate), Creation)
	}
}

// decodeInventoryProgramKey decodes a modern \Root\InventoryApplication key.
// The key's last written time is emitted as an installation. An InstallDate
// value that parses successfully produces a second installation emission,
// even for the epoch, so the record tracks whether the value was seen at all.
func (p *Parser) decodeInventoryProgramKey(key *RegistryKey) {
	record := NewProgramRecord()
	var installDate time.Time
	var installDateSeen bool

	scanValues(key.Values, modernProgramFields, func(field fieldID, v scanned) {
		if field == fieldInstallDate {
			installDate = v.date
			installDateSeen = true
			return
		}
		assignProgramField(record, field, v)
	}, func(msg string) { record.AddError(msg) })

	p.sink.Emit(record, key.LastWrittenTime, Installation)

	if installDateSeen {
		p.sink.Emit(record, installDate, Installation)
	}
}
