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

// This file holds the value name tables of both amcache schema generations as
// pure data. The single character and short hex names of the legacy schema
// are fixed format constants, they must not be changed.

// Key path prefixes selecting the schema generation and record kind.
const (
	legacyFileKeyPrefix    = `\Root\File`
	legacyProgramKeyPrefix = `\Root\Programs`
	modernFileKeyPrefix    = `\Root\InventoryApplicationFile`
	modernProgramKeyPrefix = `\Root\InventoryApplication`
)

// valueKind selects the decode rule for a registry value.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindIntOrText
	kindHash
	kindStringList
	kindDateString
)

// fieldID names the record field a registry value populates.
type fieldID int

const (
	// file record fields
	fieldFullPath fieldID = iota
	fieldSHA1
	fieldProductName
	fieldCompanyName
	fieldFileVersion
	fieldLanguageCode
	fieldFileSize
	fieldFileDescription
	fieldLinkTime
	fieldLastModifiedTime
	fieldCreatedTime
	fieldKeyTime
	fieldProgramID
	fieldLinkDate

	// program record fields
	fieldName
	fieldVersion
	fieldPublisher
	fieldEntryType
	fieldInstallDate
	fieldUninstallKey
	fieldFilePaths
	fieldProductCode
	fieldPackageCode
	fieldMsiProductCode
	fieldMsiPackageCode
	fieldFiles
	fieldOSAtInstall
)

// fieldRule maps one value name to its target field and decode rule.
type fieldRule struct {
	field fieldID
	kind  valueKind
}

var legacyFileFields = map[string]fieldRule{
	"101": {fieldSHA1, kindHash},
	"17":  {fieldKeyTime, kindInt},
	"15":  {fieldFullPath, kindString},
	"0":   {fieldProductName, kindString},
	"1":   {fieldCompanyName, kindString},
	"5":   {fieldFileVersion, kindString},
	"3":   {fieldLanguageCode, kindInt},
	"6":   {fieldFileSize, kindInt},
	"c":   {fieldFileDescription, kindString},
	"f":   {fieldLinkTime, kindInt},
	"11":  {fieldLastModifiedTime, kindInt},
	"12":  {fieldCreatedTime, kindInt},
	"100": {fieldProgramID, kindString},
}

var legacyProgramFields = map[string]fieldRule{
	"a":     {fieldInstallDate, kindInt},
	"0":     {fieldName, kindString},
	"1":     {fieldVersion, kindString},
	"2":     {fieldPublisher, kindString},
	"3":     {fieldLanguageCode, kindString},
	"6":     {fieldEntryType, kindString},
	"7":     {fieldUninstallKey, kindStringList},
	"d":     {fieldFilePaths, kindStringList},
	"f":     {fieldProductCode, kindString},
	"10":    {fieldPackageCode, kindString},
	"11":    {fieldMsiProductCode, kindStringList},
	"12":    {fieldMsiPackageCode, kindStringList},
	"Files": {fieldFiles, kindStringList},
}

var modernFileFields = map[string]fieldRule{
	"LinkDate":          {fieldLinkDate, kindDateString},
	"LowerCaseLongPath": {fieldFullPath, kindString},
	"FileId":            {fieldSHA1, kindHash},
	"ProductName":       {fieldProductName, kindString},
	"Publisher":         {fieldCompanyName, kindString},
	"Version":           {fieldFileVersion, kindString},
	"Language":          {fieldLanguageCode, kindInt},
	"Size":              {fieldFileSize, kindInt},
	"ProgramId":         {fieldProgramID, kindString},
}

var modernProgramFields = map[string]fieldRule{
	"InstallDate":            {fieldInstallDate, kindDateString},
	"Name":                   {fieldName, kindString},
	"Version":                {fieldVersion, kindString},
	"Publisher":              {fieldPublisher, kindString},
	"Language":               {fieldLanguageCode, kindIntOrText},
	"Type":                   {fieldEntryType, kindString},
	"RegistryKeyPath":        {fieldUninstallKey, kindString},
	"ManifestPath":           {fieldFilePaths, kindString},
	"OSVersionAtInstallTime": {fieldOSAtInstall, kindString},
	"MsiProductCode":         {fieldMsiProductCode, kindString},
	"MsiPackageCode":         {fieldMsiPackageCode, kindString},
	"RootDirPath":            {fieldFiles, kindString},
}
