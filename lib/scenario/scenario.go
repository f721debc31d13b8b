// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package scenario drives a parking state through a deterministic
// workload: an initial seeding of parked cars followed by per-step
// churn, where a share of the parked cars depart, search for a new
// spot from where they were parked, and repark. All randomness flows
// from one explicitly seeded source, so a (seed, network) pair fully
// determines every run.
package scenario

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/streetsim-foundation/streetsim/lib/parking"
)

// Vehicle lengths are drawn uniformly from this range, roughly
// compact car to full-size pickup.
const (
	minVehicleLength = 4.0
	maxVehicleLength = 5.5
)

// Stats summarizes one churn step.
type Stats struct {
	// Departed cars left their spot this step.
	Departed int
	// Reparked cars found and committed to a new spot.
	Reparked int
	// Stranded cars found no reachable free spot and left the
	// simulation.
	Stranded int
}

// Scenario owns the RNG and car identity sequence for one run.
type Scenario struct {
	state  *parking.State
	rng    *rand.Rand
	logger *slog.Logger

	nextCar    parking.CarID
	nextPerson parking.PersonID
}

// New creates a scenario driving state, with all randomness derived
// from seed.
func New(state *parking.State, seed int64, logger *slog.Logger) *Scenario {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	return &Scenario{
		state:  state,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// newVehicle mints a car with a fresh owner and a random length.
func (sc *Scenario) newVehicle() parking.Vehicle {
	car := sc.nextCar
	sc.nextCar++
	owner := sc.nextPerson
	sc.nextPerson++
	length := minVehicleLength + sc.rng.Float64()*(maxVehicleLength-minVehicleLength)
	return parking.Vehicle{ID: car, Length: length, Owner: &owner}
}

// SeedCars fills fraction of the currently available spots with
// newly minted parked cars and returns how many were placed. Spot
// choice is a deterministic shuffle of the available set.
func (sc *Scenario) SeedCars(fraction float64) int {
	_, available := sc.state.AllSpots()
	n := int(fraction * float64(len(available)))
	for _, i := range sc.rng.Perm(len(available))[:n] {
		spot := available[i]
		sc.state.ReserveSpot(spot)
		sc.state.AddParkedCar(parking.ParkedCar{Vehicle: sc.newVehicle(), Spot: spot})
	}
	sc.logger.Info("seeded parked cars", "cars", n, "spots", len(available))
	return n
}

// Step makes fraction of the parked cars depart and look for a new
// spot. Each departing car searches from the driving position of the
// spot it vacates; a car that finds no free spot drives off the edge
// of the simulation. Cars are drawn from the occupied spots in spot
// order, shuffled deterministically.
func (sc *Scenario) Step(fraction float64) Stats {
	filled, _ := sc.state.AllSpots()
	n := int(fraction * float64(len(filled)))

	var stats Stats
	for _, i := range sc.rng.Perm(len(filled))[:n] {
		car := sc.state.CarAtSpot(filled[i])
		if car == nil {
			// Reserved but not yet occupied.
			continue
		}
		p := *car
		start := sc.state.SpotToDrivingPos(p.Spot, &p.Vehicle).Lane
		sc.state.RemoveParkedCar(p)
		stats.Departed++

		steps, spot, _, ok := sc.state.PathToFreeParkingSpot(start, &p.Vehicle, 0)
		if !ok {
			stats.Stranded++
			sc.logger.Debug("car left the network", "car", p.Vehicle.ID)
			continue
		}
		sc.state.ReserveSpot(spot)
		sc.state.AddParkedCar(parking.ParkedCar{Vehicle: p.Vehicle, Spot: spot})
		stats.Reparked++
		sc.logger.Debug("car reparked",
			"car", p.Vehicle.ID, "spot", spot.String(), "path", len(steps))
	}
	return stats
}

// Resume restores the identity sequences after loading a snapshot,
// so new cars never collide with restored ones.
func (sc *Scenario) Resume() {
	filled, _ := sc.state.AllSpots()
	for _, spot := range filled {
		car := sc.state.CarAtSpot(spot)
		if car == nil {
			continue
		}
		if car.Vehicle.ID >= sc.nextCar {
			sc.nextCar = car.Vehicle.ID + 1
		}
		if car.Vehicle.Owner != nil && *car.Vehicle.Owner >= sc.nextPerson {
			sc.nextPerson = *car.Vehicle.Owner + 1
		}
	}
}
