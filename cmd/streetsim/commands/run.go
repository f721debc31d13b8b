// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/streetsim-foundation/streetsim/cmd/streetsim/cli"
	"github.com/streetsim-foundation/streetsim/lib/config"
	"github.com/streetsim-foundation/streetsim/lib/eventlog"
	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
	"github.com/streetsim-foundation/streetsim/lib/parking"
	"github.com/streetsim-foundation/streetsim/lib/savefile"
	"github.com/streetsim-foundation/streetsim/lib/scenario"
)

func runCommand() *cli.Command {
	var (
		configPath string
		resume     bool
		steps      int
		verbose    bool
	)

	return &cli.Command{
		Name:    "run",
		Summary: "Run a simulation",
		Description: `Run a simulation from a YAML configuration file.

Loads the road network, seeds parked cars (or restores them from a
snapshot with --resume), then steps the churn scenario: each step a
share of the parked cars depart, search for a new spot, and repark.
Parking events stream to the configured SQLite database, and the
final state is written to the configured snapshot file.`,
		Usage: "streetsim run [flags]",
		Examples: []cli.Example{
			{
				Description: "Run the downtown scenario",
				Command:     "streetsim run --config downtown.yaml",
			},
			{
				Description: "Continue a previous run from its snapshot",
				Command:     "streetsim run --config downtown.yaml --resume",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "run.yaml", "run configuration file")
			flagSet.BoolVar(&resume, "resume", false, "resume from the configured snapshot")
			flagSet.IntVar(&steps, "steps", -1, "override run.steps from the config")
			flagSet.BoolVar(&verbose, "verbose", false, "enable debug logging")
			return flagSet
		},
		Run: func(args []string) error {
			return runSimulation(configPath, resume, steps, verbose)
		},
	}
}

func runSimulation(configPath string, resume bool, stepsOverride int, verbose bool) error {
	logger := cli.NewCommandLogger(verbose).With("command", "run")

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if stepsOverride >= 0 {
		cfg.Run.Steps = stepsOverride
	}

	m, err := mapmodel.Load(cfg.NetworkPath)
	if err != nil {
		return err
	}
	logger.Info("loaded network",
		"path", cfg.NetworkPath, "lanes", len(m.Lanes()),
		"buildings", len(m.Buildings()), "lots", len(m.Lots()))

	var state *parking.State
	if resume {
		if cfg.Snapshot.Path == "" {
			return fmt.Errorf("--resume requires snapshot.path in the config")
		}
		snap, err := savefile.Read(cfg.Snapshot.Path)
		if err != nil {
			return err
		}
		state = parking.NewFromSnapshot(m, snap, logger)
		logger.Info("restored snapshot", "path", cfg.Snapshot.Path)
	} else {
		state, err = parking.New(m, logger)
		if err != nil {
			return err
		}
	}

	var log *eventlog.Log
	if cfg.EventDB != "" {
		log, err = eventlog.Open(cfg.EventDB, logger)
		if err != nil {
			return err
		}
		defer log.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persist := func(step int) error {
		events := state.CollectEvents()
		if log == nil {
			return nil
		}
		return log.Append(ctx, step, events)
	}

	driver := scenario.New(state, cfg.Run.Seed, logger)
	if resume {
		driver.Resume()
	} else {
		driver.SeedCars(cfg.Run.SeedFraction)
		if err := persist(0); err != nil {
			return err
		}
	}

	var totals scenario.Stats
	step := 0
	for ; step < cfg.Run.Steps; step++ {
		if ctx.Err() != nil {
			logger.Warn("interrupted", "completed_steps", step)
			break
		}
		stats := driver.Step(cfg.Run.ChurnFraction)
		totals.Departed += stats.Departed
		totals.Reparked += stats.Reparked
		totals.Stranded += stats.Stranded
		if err := persist(step + 1); err != nil {
			return err
		}
		logger.Debug("step complete", "step", step+1,
			"departed", stats.Departed, "reparked", stats.Reparked,
			"stranded", stats.Stranded)
	}

	if cfg.Snapshot.Path != "" {
		name := cfg.Snapshot.Compression
		if name == "" {
			name = "zstd"
		}
		compression, err := savefile.ParseCompression(name)
		if err != nil {
			return err
		}
		if err := savefile.Write(cfg.Snapshot.Path, state.Snapshot(), compression); err != nil {
			return err
		}
		logger.Info("wrote snapshot", "path", cfg.Snapshot.Path, "compression", name)
	}

	filled, available := state.AllSpots()
	fmt.Printf("steps: %d\n", step)
	fmt.Printf("departed: %d  reparked: %d  stranded: %d\n",
		totals.Departed, totals.Reparked, totals.Stranded)
	fmt.Printf("spots: %d filled, %d available\n", len(filled), len(available))
	return nil
}
