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
	"log"

	"github.com/google/uuid"
)

// FileRecordType is the type discriminator of FileRecord.
const FileRecordType = "amcache-file"

// ProgramRecordType is the type discriminator of ProgramRecord.
const ProgramRecordType = "amcache-program"

// FileRecord describes a single executed or inventoried file reconstructed
// from one amcache registry key.
//
// The raw timestamp fields keep the encoding of the hive: LinkTime is Unix
// seconds, LastModifiedTime and CreatedTime are FILETIME ticks. The decoders
// additionally emit them as normalized times through the Sink.
type FileRecord struct {
	ID               string        `json:"id"`
	Type             string        `json:"type"`
	FullPath         string        `json:"full_path,omitempty"`
	SHA1             string        `json:"sha1,omitempty"`
	ProductName      string        `json:"product_name,omitempty"`
	CompanyName      string        `json:"company_name,omitempty"`
	FileVersion      string        `json:"file_version,omitempty"`
	LanguageCode     int64         `json:"language_code,omitempty"`
	FileSize         int64         `json:"file_size,omitempty"`
	FileDescription  string        `json:"file_description,omitempty"`
	LinkTime         int64         `json:"link_time,omitempty"`
	LastModifiedTime int64         `json:"last_modified_time,omitempty"`
	CreatedTime      int64         `json:"created_time,omitempty"`
	ProgramID        string        `json:"program_id,omitempty"`
	Errors           []interface{} `json:"errors,omitempty"`
}

// NewFileRecord creates an empty FileRecord.
func NewFileRecord() *FileRecord {
	return &FileRecord{ID: FileRecordType + "--" + uuid.New().String(), Type: FileRecordType}
}

// AddError adds an error string to a FileRecord and returns this FileRecord.
func (r *FileRecord) AddError(err string) *FileRecord {
	log.Print(err)
	r.Errors = append(r.Errors, err)
	return r
}

// ProgramRecord describes a single installed program reconstructed from one
// amcache registry key.
//
// LanguageCode is a string for legacy program keys and an integer for modern
// ones (falling back to the raw string when the value is not numeric). The
// hives are inconsistent here and the asymmetry is kept on purpose.
type ProgramRecord struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Name           string        `json:"name,omitempty"`
	Version        string        `json:"version,omitempty"`
	Publisher      string        `json:"publisher,omitempty"`
	LanguageCode   interface{}   `json:"language_code,omitempty"`
	EntryType      string        `json:"entry_type,omitempty"`
	UninstallKey   string        `json:"uninstall_key,omitempty"`
	FilePaths      string        `json:"file_paths,omitempty"`
	ProductCode    string        `json:"product_code,omitempty"`
	PackageCode    string        `json:"package_code,omitempty"`
	MsiProductCode string        `json:"msi_product_code,omitempty"`
	MsiPackageCode string        `json:"msi_package_code,omitempty"`
	Files          string        `json:"files,omitempty"`
	OSAtInstall    string        `json:"os_at_install,omitempty"`
	Errors         []interface{} `json:"errors,omitempty"`
}

// NewProgramRecord creates an empty ProgramRecord.
func NewProgramRecord() *ProgramRecord {
	return &ProgramRecord{ID: ProgramRecordType + "--" + uuid.New().String(), Type: ProgramRecordType}
}

// AddError adds an error string to a ProgramRecord and returns this ProgramRecord.
func (r *ProgramRecord) AddError(err string) *ProgramRecord {
	log.Print(err)
	r.Errors = append(r.Errors, err)
	return r
}
