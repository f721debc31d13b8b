// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete streetsim CLI command tree.
package commands

import (
	"fmt"

	"github.com/streetsim-foundation/streetsim/cmd/streetsim/cli"
	"github.com/streetsim-foundation/streetsim/lib/version"
)

// Root builds and returns the complete streetsim CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "streetsim",
		Description: `Streetsim: street parking microsimulation.

Simulate on-street, garage, and lot parking on a road network:
deterministic seeding, per-step churn, best-first spot search,
SQLite event logging, and checksummed state snapshots.`,
		Subcommands: []*cli.Command{
			runCommand(),
			inspectCommand(),
			eventsCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("streetsim %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
