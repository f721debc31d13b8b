// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
)

// State is the central parking authority. All fields are owned
// exclusively by the store; nothing outside this package constructs
// or mutates ParkedCar entries or reservations.
//
// Invariants, holding after every exported operation:
//
//  1. occupants and reserved are disjoint; a spot is free iff it is
//     in neither.
//  2. parkedCars and occupants are mutual inverses.
//  3. Every spot value in play is index-bounded by its lane's slot
//     count or its entity's capacity.
//  4. Spots behind a blackholed driving lane are not indexed at all
//     and so can never be free, reserved, or occupied.
//  5. Lanes, buildings, and lots with zero capacity are absent from
//     the indexes.
type State struct {
	parkedCars map[CarID]ParkedCar
	occupants  map[Spot]CarID
	reserved   map[Spot]struct{}

	// On-street: geometry per parking lane, and which parking lanes
	// feed each driving lane.
	onstreetLanes    map[mapmodel.LaneID]*ParkingLane
	drivingToParking map[mapmodel.LaneID][]mapmodel.LaneID

	// Off-street: garage capacity per building, and which buildings
	// are entered from each driving lane.
	offstreetCapacity  map[mapmodel.BuildingID]int
	drivingToOffstreet map[mapmodel.LaneID][]mapmodel.BuildingID

	// Lots: capacity per lot, and which lots are entered from each
	// driving lane.
	lotCapacity   map[mapmodel.LotID]int
	drivingToLots map[mapmodel.LaneID][]mapmodel.LotID

	events []Event

	m      *mapmodel.Map
	logger *slog.Logger
}

// New scans the static network once and builds the store's indexes.
// Spots located behind blackholed driving lanes are simply not
// represented: a car leaving such a spot could not reach most of the
// network, so they must never be offered. A parking lane with no
// paired driving lane is an unrecoverable configuration fault; a
// parking lane with no sidewalk is logged and dropped.
func New(m *mapmodel.Map, logger *slog.Logger) (*State, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	s := &State{
		parkedCars: make(map[CarID]ParkedCar),
		occupants:  make(map[Spot]CarID),
		reserved:   make(map[Spot]struct{}),

		onstreetLanes:      make(map[mapmodel.LaneID]*ParkingLane),
		drivingToParking:   make(map[mapmodel.LaneID][]mapmodel.LaneID),
		offstreetCapacity:  make(map[mapmodel.BuildingID]int),
		drivingToOffstreet: make(map[mapmodel.LaneID][]mapmodel.BuildingID),
		lotCapacity:        make(map[mapmodel.LotID]int),
		drivingToLots:      make(map[mapmodel.LaneID][]mapmodel.LotID),

		m:      m,
		logger: logger,
	}

	for _, id := range m.Lanes() {
		lane, err := newParkingLane(m.Lane(id), m, logger)
		if err != nil {
			return nil, fmt.Errorf("parking: %w", err)
		}
		if lane == nil {
			continue
		}
		s.onstreetLanes[lane.Parking] = lane
		s.drivingToParking[lane.Driving] = append(s.drivingToParking[lane.Driving], lane.Parking)
	}

	for _, id := range m.Buildings() {
		p := m.Building(id).Parking
		if p == nil || p.Capacity == 0 {
			continue
		}
		if m.Lane(p.DrivingPos.Lane).Blackhole {
			continue
		}
		s.offstreetCapacity[id] = p.Capacity
		s.drivingToOffstreet[p.DrivingPos.Lane] = append(s.drivingToOffstreet[p.DrivingPos.Lane], id)
	}

	for _, id := range m.Lots() {
		lot := m.Lot(id)
		if lot.Capacity == 0 {
			continue
		}
		if m.Lane(lot.DrivingPos.Lane).Blackhole {
			continue
		}
		s.lotCapacity[id] = lot.Capacity
		s.drivingToLots[lot.DrivingPos.Lane] = append(s.drivingToLots[lot.DrivingPos.Lane], id)
	}

	// The per-lane adjacency lists were appended in map iteration
	// order above for buildings/lots keyed off m's sorted ID lists,
	// so they are already ascending; the parking-lane lists may not
	// be. Sort everything once so enumeration order is stable.
	for _, lanes := range s.drivingToParking {
		slices.Sort(lanes)
	}

	logger.Info("parking store built",
		"onstreet_lanes", len(s.onstreetLanes),
		"offstreet_buildings", len(s.offstreetCapacity),
		"lots", len(s.lotCapacity),
	)
	return s, nil
}

// IsFree reports whether a spot is neither occupied nor reserved.
func (s *State) IsFree(spot Spot) bool {
	if _, occupied := s.occupants[spot]; occupied {
		return false
	}
	_, claimed := s.reserved[spot]
	return !claimed
}

// FreeOnstreetSpots returns the free slots on the given parking
// lane, in slot order. Unknown lanes yield nothing.
func (s *State) FreeOnstreetSpots(lane mapmodel.LaneID) []Spot {
	var spots []Spot
	if pl, ok := s.onstreetLanes[lane]; ok {
		for _, spot := range pl.Spots() {
			if s.IsFree(spot) {
				spots = append(spots, spot)
			}
		}
	}
	return spots
}

// FreeOffstreetSpots returns the free slots in the given building's
// garage, in slot order.
func (s *State) FreeOffstreetSpots(building mapmodel.BuildingID) []Spot {
	var spots []Spot
	for idx := 0; idx < s.offstreetCapacity[building]; idx++ {
		spot := OffstreetSpot(building, idx)
		if s.IsFree(spot) {
			spots = append(spots, spot)
		}
	}
	return spots
}

// FreeLotSpots returns the free slots in the given lot, in slot
// order.
func (s *State) FreeLotSpots(lot mapmodel.LotID) []Spot {
	var spots []Spot
	for idx := 0; idx < s.lotCapacity[lot]; idx++ {
		spot := LotSpot(lot, idx)
		if s.IsFree(spot) {
			spots = append(spots, spot)
		}
	}
	return spots
}

// CarAtSpot returns the parked car occupying a spot, or nil if the
// spot is empty (free or merely reserved).
func (s *State) CarAtSpot(spot Spot) *ParkedCar {
	car, ok := s.occupants[spot]
	if !ok {
		return nil
	}
	p := s.parkedCars[car]
	return &p
}

// LookupParkedCar returns the record for a parked vehicle, or nil if
// that vehicle is not currently parked.
func (s *State) LookupParkedCar(car CarID) *ParkedCar {
	p, ok := s.parkedCars[car]
	if !ok {
		return nil
	}
	return &p
}

// OwnerOf returns the owner of a parked vehicle, or nil when the
// vehicle is not parked or has no owner.
func (s *State) OwnerOf(car CarID) *PersonID {
	p, ok := s.parkedCars[car]
	if !ok {
		return nil
	}
	return p.Vehicle.Owner
}

// AllSpots partitions every indexed spot into (filled, available).
// Filled means "not free": reserved-but-empty spots count as filled.
func (s *State) AllSpots() (filled, available []Spot) {
	var spots []Spot
	for _, lane := range s.onstreetLanes {
		spots = append(spots, lane.Spots()...)
	}
	for building, capacity := range s.offstreetCapacity {
		for idx := 0; idx < capacity; idx++ {
			spots = append(spots, OffstreetSpot(building, idx))
		}
	}
	for lot, capacity := range s.lotCapacity {
		for idx := 0; idx < capacity; idx++ {
			spots = append(spots, LotSpot(lot, idx))
		}
	}
	slices.SortFunc(spots, Spot.Compare)

	for _, spot := range spots {
		if s.IsFree(spot) {
			available = append(available, spot)
		} else {
			filled = append(filled, spot)
		}
	}
	return filled, available
}

// ReserveSpot claims a free spot for a vehicle that has decided to
// park there but has not yet arrived. From this call on, no other
// search can select the spot. The spot must be free and must exist
// in the indexes; anything else is a logic error upstream and
// panics with a [FatalError].
func (s *State) ReserveSpot(spot Spot) {
	if !s.IsFree(spot) {
		fatal("ReserveSpot", spot, "spot is not free")
	}
	switch spot.Kind {
	case KindOnstreet:
		lane, ok := s.onstreetLanes[spot.Lane]
		if !ok || spot.Index >= len(lane.SpotDistAlong) {
			fatal("ReserveSpot", spot, "no such on-street slot")
		}
	case KindOffstreet:
		if spot.Index >= s.offstreetCapacity[spot.Building] {
			fatal("ReserveSpot", spot, "index exceeds building capacity")
		}
	case KindLot:
		if spot.Index >= s.lotCapacity[spot.Lot] {
			fatal("ReserveSpot", spot, "index exceeds lot capacity")
		}
	default:
		fatal("ReserveSpot", spot, "unknown spot kind")
	}
	if spot.Index < 0 {
		fatal("ReserveSpot", spot, "negative index")
	}
	s.reserved[spot] = struct{}{}
}

// AddParkedCar commits occupancy when the reserving vehicle arrives:
// the reservation is consumed and the car becomes the spot's
// occupant. The spot must have been reserved and must not already be
// occupied, and the vehicle must not already be parked elsewhere.
func (s *State) AddParkedCar(p ParkedCar) {
	s.events = append(s.events, Event{Kind: EventCarReachedSpot, Car: p.Vehicle.ID, Spot: p.Spot})

	if _, ok := s.reserved[p.Spot]; !ok {
		fatal("AddParkedCar", p.Spot, "spot was not reserved")
	}
	delete(s.reserved, p.Spot)

	if car, ok := s.occupants[p.Spot]; ok {
		fatal("AddParkedCar", p.Spot, "spot already occupied by car %d", car)
	}
	s.occupants[p.Spot] = p.Vehicle.ID

	if _, ok := s.parkedCars[p.Vehicle.ID]; ok {
		fatal("AddParkedCar", p.Spot, "car %d is already parked", p.Vehicle.ID)
	}
	s.parkedCars[p.Vehicle.ID] = p
}

// RemoveParkedCar releases a spot when its occupant departs. The
// vehicle must be tracked as parked and its spot occupied; the
// reservation set is untouched.
func (s *State) RemoveParkedCar(p ParkedCar) {
	if _, ok := s.parkedCars[p.Vehicle.ID]; !ok {
		fatal("RemoveParkedCar", p.Spot, "car %d is not parked", p.Vehicle.ID)
	}
	delete(s.parkedCars, p.Vehicle.ID)

	if _, ok := s.occupants[p.Spot]; !ok {
		fatal("RemoveParkedCar", p.Spot, "spot has no occupant")
	}
	delete(s.occupants, p.Spot)

	s.events = append(s.events, Event{Kind: EventCarLeftSpot, Car: p.Vehicle.ID, Spot: p.Spot})
}
