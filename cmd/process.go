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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/amcache"
	"github.com/forensicanalysis/amcache/amcachestore"
	"github.com/forensicanalysis/amcache/hivedump"
)

// Process is the amcache process commandline subcommand
func Process() *cobra.Command {
	var noAttach bool
	processCommand := &cobra.Command{
		Use:   "process <dump.jsonl> <amcachestore>",
		Short: "Decode an amcache registry key dump into a new event store",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			dumpPath := cmd.Flags().Args()[0]
			storeName := cmd.Flags().Args()[1]

			keys, err := hivedump.ReadFile(dumpPath)
			if err != nil {
				return err
			}

			store, err := amcachestore.New(storeName)
			if err != nil {
				return err
			}
			defer store.Close()

			parsers := amcache.Parsers(store)
			for i := range keys {
				for _, parser := range parsers {
					parser.Route(&keys[i])
				}
			}
			if err := store.Err(); err != nil {
				return err
			}

			if !noAttach {
				if err := attach(store, dumpPath); err != nil {
					return err
				}
			}

			events, err := store.All()
			if err != nil {
				return err
			}
			fmt.Printf("%d keys, %d events\n", len(keys), len(events))
			return nil
		},
	}
	processCommand.Flags().BoolVar(&noAttach, "no-attach", false, "do not copy the dump into the store")
	return processCommand
}

func attach(store *amcachestore.Store, dumpPath string) error {
	src, err := os.Open(dumpPath)
	if err != nil {
		return err
	}
	defer src.Close()

	_, dst, err := store.StoreFile(filepath.Base(dumpPath))
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return err
}

// Validate is the amcache validate commandline subcommand
func Validate() *cobra.Command {
	var noFail bool
	validateCommand := &cobra.Command{
		Use:   "validate <amcachestore>",
		Short: "Validate all events",
		Args:  cobra.ExactArgs(1), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			storeName := cmd.Flags().Args()[0]

			store, err := amcachestore.Open(storeName)
			if err != nil {
				fmt.Println(err)
				return err
			}
			defer store.Close()
			valErr, err := store.Validate()
			if err != nil {
				fmt.Println(err)
				return err
			}
			if len(valErr) > 0 {
				for i, v := range valErr {
					valErr[i] = strings.Replace(v, "\"", "\\\"", -1)
				}
				fmt.Printf("[\"%s\"]\n", strings.Join(valErr, "\", \""))
				if noFail {
					return nil
				}
				return fmt.Errorf("%d validation errors", len(valErr))
			}
			return nil
		},
	}
	validateCommand.Flags().BoolVar(&noFail, "no-fail", false, "return exit code 0")
	return validateCommand
}
