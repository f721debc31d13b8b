// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/streetsim-foundation/streetsim/cmd/streetsim/cli"
	"github.com/streetsim-foundation/streetsim/lib/codec"
	"github.com/streetsim-foundation/streetsim/lib/parking"
	"github.com/streetsim-foundation/streetsim/lib/savefile"
)

func inspectCommand() *cli.Command {
	var diag bool

	return &cli.Command{
		Name:    "inspect",
		Summary: "Summarize a snapshot file",
		Description: `Inspect a snapshot file: verify its checksum, decode it, and
print occupancy by spot kind.`,
		Usage: "streetsim inspect <snapshot> [flags]",
		Examples: []cli.Example{
			{
				Description: "Summarize a snapshot",
				Command:     "streetsim inspect downtown.ssav",
			},
			{
				Description: "Dump the snapshot in CBOR diagnostic notation",
				Command:     "streetsim inspect downtown.ssav --diag",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			flagSet.BoolVar(&diag, "diag", false, "print CBOR diagnostic notation instead of a summary")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one snapshot path, got %d args", len(args))
			}
			return inspectSnapshot(args[0], diag)
		},
	}
}

func inspectSnapshot(path string, diag bool) error {
	snap, err := savefile.Read(path)
	if err != nil {
		return err
	}

	if diag {
		data, err := codec.Marshal(snap)
		if err != nil {
			return err
		}
		text, err := codec.Diagnose(data)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	byKind := map[parking.SpotKind]int{}
	for _, p := range snap.ParkedCars {
		byKind[p.Spot.Kind]++
	}
	fmt.Printf("parked cars: %d (%d onstreet, %d offstreet, %d lot)\n",
		len(snap.ParkedCars),
		byKind[parking.KindOnstreet], byKind[parking.KindOffstreet], byKind[parking.KindLot])
	fmt.Printf("reserved spots: %d\n", len(snap.Reserved))
	fmt.Printf("parking lanes: %d\n", len(snap.OnstreetLanes))
	fmt.Printf("garages: %d\n", len(snap.Offstreet))
	fmt.Printf("lots: %d\n", len(snap.Lots))
	fmt.Printf("buffered events: %d\n", len(snap.Events))
	return nil
}
