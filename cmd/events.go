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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forensicanalysis/amcache/amcachestore"
)

// Events is the amcache events commandline subcommand
func Events() *cobra.Command {
	eventsCommand := &cobra.Command{
		Use:   "events",
		Short: "Query the event store via the commandline",
	}
	eventsCommand.AddCommand(getCommand(), selectCommand(), allCommand(), searchCommand())
	return eventsCommand
}

func getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id> <amcachestore>",
		Short: "Retrieve a single event",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cmd.Flags().Args()[0]
			storeName := cmd.Flags().Args()[1]
			store, err := amcachestore.Open(storeName)
			if err != nil {
				return err
			}
			defer store.Close()
			event, err := store.Get(id)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", event)
			return nil
		},
	}
}

func selectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select <type> <amcachestore>",
		Short: "Retrieve a list of all events of a specific type",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			eventType := cmd.Flags().Args()[0]
			storeName := cmd.Flags().Args()[1]
			store, err := amcachestore.Open(storeName)
			if err != nil {
				return err
			}
			defer store.Close()
			events, err := store.Select(eventType)
			if err != nil {
				return err
			}
			return printEvents(events)
		},
	}
}

func allCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all <amcachestore>",
		Short: "Retrieve all events",
		Args:  cobra.ExactArgs(1), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			storeName := cmd.Flags().Args()[0]
			store, err := amcachestore.Open(storeName)
			if err != nil {
				return err
			}
			defer store.Close()
			events, err := store.All()
			if err != nil {
				return err
			}
			return printEvents(events)
		},
	}
}

func searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term> <amcachestore>",
		Short: "Full text search over all events",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			term := cmd.Flags().Args()[0]
			storeName := cmd.Flags().Args()[1]
			store, err := amcachestore.Open(storeName)
			if err != nil {
				return err
			}
			defer store.Close()
			events, err := store.Search(term)
			if err != nil {
				return err
			}
			return printEvents(events)
		},
	}
}

func printEvents(events []amcachestore.JSONEvent) error {
	raw := make([]json.RawMessage, 0, len(events))
	for _, event := range events {
		raw = append(raw, json.RawMessage(event))
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", b)
	return nil
}
