// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/streetsim-foundation/streetsim/cmd/streetsim/cli"
	"github.com/streetsim-foundation/streetsim/lib/eventlog"
	"github.com/streetsim-foundation/streetsim/lib/parking"
)

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:    "events",
		Summary: "Query a run's event database",
		Subcommands: []*cli.Command{
			eventsCountsCommand(),
			eventsCarCommand(),
		},
	}
}

func eventsCountsCommand() *cli.Command {
	var dbPath string

	return &cli.Command{
		Name:    "counts",
		Summary: "Print event totals by kind",
		Usage:   "streetsim events counts [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("counts", pflag.ContinueOnError)
			flagSet.StringVar(&dbPath, "db", "events.db", "event database path")
			return flagSet
		},
		Run: func(args []string) error {
			logger := cli.NewCommandLogger(false).With("command", "events/counts")
			log, err := eventlog.Open(dbPath, logger)
			if err != nil {
				return err
			}
			defer log.Close()

			counts, err := log.CountByKind(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d\n", parking.EventCarReachedSpot, counts[parking.EventCarReachedSpot])
			fmt.Printf("%s: %d\n", parking.EventCarLeftSpot, counts[parking.EventCarLeftSpot])
			return nil
		},
	}
}

func eventsCarCommand() *cli.Command {
	var dbPath string

	return &cli.Command{
		Name:    "car",
		Summary: "Print the spots a car has parked in, in order",
		Usage:   "streetsim events car <car-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Show where car 42 has parked",
				Command:     "streetsim events car 42 --db events.db",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("car", pflag.ContinueOnError)
			flagSet.StringVar(&dbPath, "db", "events.db", "event database path")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one car ID, got %d args", len(args))
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("car ID %q is not a number", args[0])
			}

			logger := cli.NewCommandLogger(false).With("command", "events/car")
			log, err := eventlog.Open(dbPath, logger)
			if err != nil {
				return err
			}
			defer log.Close()

			spots, err := log.CarHistory(context.Background(), parking.CarID(id))
			if err != nil {
				return err
			}
			if len(spots) == 0 {
				fmt.Printf("car %d has no recorded parking events\n", id)
				return &cli.ExitError{Code: 1}
			}
			for _, spot := range spots {
				fmt.Println(spot)
			}
			return nil
		},
	}
}
