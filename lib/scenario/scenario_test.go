// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package scenario_test

import (
	"bytes"
	"testing"

	"github.com/streetsim-foundation/streetsim/lib/codec"
	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
	"github.com/streetsim-foundation/streetsim/lib/parking"
	"github.com/streetsim-foundation/streetsim/lib/scenario"
)

// ringNetwork is three full cross-section roads joined into a cycle,
// so a departing car can always reach every other road. Each parking
// lane holds three slots; one road also feeds a public garage.
func ringNetwork(t *testing.T) *mapmodel.Map {
	t.Helper()
	b := mapmodel.NewBuilder()
	for i, base := range []mapmodel.LaneID{10, 20, 30} {
		road := mapmodel.RoadID(i + 1)
		b.AddLane(mapmodel.Lane{ID: base, Road: road, Type: mapmodel.LaneDriving, Length: 32})
		b.AddLane(mapmodel.Lane{ID: base + 1, Road: road, Type: mapmodel.LaneParking, Length: 32})
		b.AddLane(mapmodel.Lane{ID: base + 2, Road: road, Type: mapmodel.LaneSidewalk, Length: 32})
	}
	b.AddTurn(10, 20, 5)
	b.AddTurn(20, 30, 5)
	b.AddTurn(30, 10, 5)
	b.AddBuilding(mapmodel.Building{ID: 1, Parking: &mapmodel.OffstreetParking{
		DrivingPos:       mapmodel.Position{Lane: 20, DistAlong: 15},
		SidewalkPos:      mapmodel.Position{Lane: 22, DistAlong: 15},
		Capacity:         3,
		PublicGarageName: "ring garage",
	}})
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func newState(t *testing.T, m *mapmodel.Map) *parking.State {
	t.Helper()
	s, err := parking.New(m, nil)
	if err != nil {
		t.Fatalf("parking.New: %v", err)
	}
	return s
}

func TestSeedCarsFillsFraction(t *testing.T) {
	m := ringNetwork(t)
	s := newState(t, m)
	sc := scenario.New(s, 1, nil)

	// 9 on-street slots plus 3 garage spots.
	placed := sc.SeedCars(0.5)
	if placed != 6 {
		t.Errorf("SeedCars placed %d cars, want 6 of 12 spots", placed)
	}
	filled, available := s.AllSpots()
	if len(filled) != 6 || len(available) != 6 {
		t.Errorf("AllSpots = %d filled, %d available, want 6/6", len(filled), len(available))
	}
	if got := len(s.CollectEvents()); got != 6 {
		t.Errorf("seeding emitted %d events, want 6", got)
	}
}

func TestStepConservesCars(t *testing.T) {
	s := newState(t, ringNetwork(t))
	sc := scenario.New(s, 7, nil)
	sc.SeedCars(0.5)
	s.CollectEvents()

	stats := sc.Step(0.5)
	if stats.Departed != stats.Reparked+stats.Stranded {
		t.Errorf("stats %+v: departed must equal reparked plus stranded", stats)
	}
	if stats.Departed == 0 {
		t.Error("expected at least one departure at churn 0.5")
	}

	// One departure event per departed car, one arrival per reparked.
	var left, reached int
	for _, ev := range s.CollectEvents() {
		switch ev.Kind {
		case parking.EventCarLeftSpot:
			left++
		case parking.EventCarReachedSpot:
			reached++
		}
	}
	if left != stats.Departed || reached != stats.Reparked {
		t.Errorf("events %d left / %d reached, want %d / %d",
			left, reached, stats.Departed, stats.Reparked)
	}
}

// run executes a fixed workload and returns the deterministic
// encoding of the final state.
func run(t *testing.T, seed int64) []byte {
	t.Helper()
	s := newState(t, ringNetwork(t))
	sc := scenario.New(s, seed, nil)
	sc.SeedCars(0.75)
	for i := 0; i < 20; i++ {
		sc.Step(0.3)
	}
	data, err := codec.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestRunsAreDeterministic(t *testing.T) {
	if !bytes.Equal(run(t, 42), run(t, 42)) {
		t.Error("two runs with the same seed produced different states")
	}
	if bytes.Equal(run(t, 42), run(t, 43)) {
		t.Error("different seeds produced identical states; RNG is not wired")
	}
}

func TestResumeAdvancesIdentity(t *testing.T) {
	s := newState(t, ringNetwork(t))
	seeder := scenario.New(s, 3, nil)
	seeder.SeedCars(0.5)

	restored := parking.NewFromSnapshot(ringNetwork(t), s.Snapshot(), nil)
	sc := scenario.New(restored, 4, nil)
	sc.Resume()
	sc.SeedCars(0.5)

	seen := map[parking.CarID]bool{}
	filled, _ := restored.AllSpots()
	for _, spot := range filled {
		car := restored.CarAtSpot(spot)
		if car == nil {
			continue
		}
		if seen[car.Vehicle.ID] {
			t.Fatalf("car %d parked twice after resume", car.Vehicle.ID)
		}
		seen[car.Vehicle.ID] = true
	}
}
