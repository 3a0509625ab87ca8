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

// Package main implements the amcache command line tool that decodes
// Amcache registry key dumps into queryable event stores.
//     process   Decode a registry key dump into a new event store
//     events    Query the event store (get, select, all, search)
//     validate  Validate event stores
//
// Usage
//
// Decode a dump
//     amcache process amcache.jsonl my.amcachestore
// Fetch events
//     amcache events all my.amcachestore > export.json
//     amcache events select amcache-file my.amcachestore > files.json
//     amcache events search svchost.exe my.amcachestore
//
// Validate a store
//     amcache validate my.amcachestore
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/amcache/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "amcache",
		Short: "Decode Windows Amcache hive dumps into forensic event stores",
	}
	rootCmd.AddCommand(cmd.Process(), cmd.Events(), cmd.Validate())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
