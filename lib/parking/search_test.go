// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking_test

import (
	"testing"

	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
	"github.com/streetsim-foundation/streetsim/lib/parking"
)

// corridorNetwork chains n full cross-section roads into a one-way
// corridor: driving lanes 10, 20, 30, ... connected by 5m turns,
// with parking lanes 11, 21, 31, ... alongside.
func corridorNetwork(t *testing.T, n int) *mapmodel.Map {
	t.Helper()
	b := mapmodel.NewBuilder()
	for i := 0; i < n; i++ {
		base := mapmodel.LaneID(10 * (i + 1))
		addRoad(b, mapmodel.RoadID(i+1), base, 32)
		if i > 0 {
			b.AddTurn(base-10, base, 5)
		}
	}
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// fillLane occupies every slot on a parking lane.
func fillLane(t *testing.T, s *parking.State, lane mapmodel.LaneID, firstCar parking.CarID) parking.CarID {
	t.Helper()
	car := firstCar
	for _, spot := range s.FreeOnstreetSpots(lane) {
		park(t, s, car, spot)
		car++
	}
	return car
}

func TestSearchOneTurnAway(t *testing.T) {
	m := corridorNetwork(t, 2)
	s := newState(t, m)
	fillLane(t, s, 11, 100)

	steps, spot, pos, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0)
	if !ok {
		t.Fatal("search found nothing")
	}

	want := []parking.PathStep{
		parking.TurnStep(mapmodel.TurnID{Src: 10, Dst: 20}),
		parking.LaneStep(20),
	}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("steps[%d] = %v, want %v", i, steps[i], want[i])
		}
	}

	// Closest slot to the lane start wins.
	if spot != parking.OnstreetSpot(21, 0) {
		t.Errorf("spot = %v, want slot 0 on lane 21", spot)
	}
	if got := s.SpotToDrivingPos(spot, testVehicle(1)); got != pos {
		t.Errorf("pos = %v, inconsistent with SpotToDrivingPos %v", pos, got)
	}
}

func TestSearchTwoTurnsAway(t *testing.T) {
	m := corridorNetwork(t, 3)
	s := newState(t, m)
	next := fillLane(t, s, 11, 100)
	fillLane(t, s, 21, next)

	steps, spot, _, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0)
	if !ok {
		t.Fatal("search found nothing")
	}
	if len(steps) != 4 {
		t.Fatalf("steps = %v, want 2 turns and 2 lanes", steps)
	}
	want := []parking.PathStep{
		parking.TurnStep(mapmodel.TurnID{Src: 10, Dst: 20}),
		parking.LaneStep(20),
		parking.TurnStep(mapmodel.TurnID{Src: 20, Dst: 30}),
		parking.LaneStep(30),
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("steps[%d] = %v, want %v", i, steps[i], want[i])
		}
	}
	if spot.Lane != 31 {
		t.Errorf("spot = %v, want a slot on lane 31", spot)
	}
}

func TestSearchIgnoresStartLane(t *testing.T) {
	// Every slot on the start lane is free, but the search must not
	// offer them: a spot opening up where the vehicle already sits
	// would not have triggered a search.
	m := corridorNetwork(t, 2)
	s := newState(t, m)

	_, spot, _, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0)
	if !ok {
		t.Fatal("search found nothing")
	}
	if spot.Lane == 11 {
		t.Errorf("search returned spot %v on the start lane", spot)
	}
}

func TestSearchExhaustedReturnsNotFound(t *testing.T) {
	m := corridorNetwork(t, 3)
	s := newState(t, m)
	car := parking.CarID(100)
	for _, lane := range []mapmodel.LaneID{11, 21, 31} {
		car = fillLane(t, s, lane, car)
	}

	_, _, _, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0)
	if ok {
		t.Fatal("search reported a spot on a fully occupied network")
	}
}

func TestSearchPrefersNearerLane(t *testing.T) {
	// A fork: lane 10 connects to lanes 20 and 30 directly, but the
	// turn to 30 is much longer. Both have free slots; the search
	// must pick lane 20.
	b := mapmodel.NewBuilder()
	addRoad(b, 1, 10, 32)
	addRoad(b, 2, 20, 32)
	addRoad(b, 3, 30, 32)
	b.AddTurn(10, 20, 5)
	b.AddTurn(10, 30, 500)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := newState(t, m)
	fillLane(t, s, 11, 100)

	_, spot, _, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0)
	if !ok {
		t.Fatal("search found nothing")
	}
	if spot.Lane != 21 {
		t.Errorf("spot = %v, want a slot on lane 21 (the nearer fork)", spot)
	}
}

func TestSearchDeterministicTieBreak(t *testing.T) {
	// Two forks at identical distance. The lower lane ID must win,
	// every time.
	build := func() *parking.State {
		b := mapmodel.NewBuilder()
		addRoad(b, 1, 10, 32)
		addRoad(b, 2, 20, 32)
		addRoad(b, 3, 30, 32)
		b.AddTurn(10, 30, 5)
		b.AddTurn(10, 20, 5)
		m, err := b.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		s := newState(t, m)
		fillLane(t, s, 11, 100)
		return s
	}

	for i := 0; i < 10; i++ {
		s := build()
		_, spot, _, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0)
		if !ok {
			t.Fatal("search found nothing")
		}
		if spot.Lane != 21 {
			t.Fatalf("tie broken toward lane %d, want 21", spot.Lane)
		}
	}
}

func TestSearchChurnFirstReserverWins(t *testing.T) {
	m := corridorNetwork(t, 2)
	s := newState(t, m)
	fillLane(t, s, 11, 100)

	// Two vehicles search back-to-back in the same step; both see
	// the same best spot, but only the first reservation succeeds
	// and the second search no longer offers it.
	_, first, _, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0)
	if !ok {
		t.Fatal("first search found nothing")
	}
	s.ReserveSpot(first)

	_, second, _, ok := s.PathToFreeParkingSpot(10, testVehicle(2), 0)
	if !ok {
		t.Fatal("second search found nothing")
	}
	if second == first {
		t.Errorf("second search returned the reserved spot %v", first)
	}
}

func TestSearchTraversesCycles(t *testing.T) {
	// A loop back to the start lane must not hang or duplicate
	// work.
	b := mapmodel.NewBuilder()
	addRoad(b, 1, 10, 32)
	addRoad(b, 2, 20, 32)
	b.AddTurn(10, 20, 5)
	b.AddTurn(20, 10, 5)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := newState(t, m)
	car := fillLane(t, s, 11, 100)
	fillLane(t, s, 21, car)

	if _, _, _, ok := s.PathToFreeParkingSpot(10, testVehicle(1), 0); ok {
		t.Fatal("search reported a spot on a fully occupied loop")
	}
}
