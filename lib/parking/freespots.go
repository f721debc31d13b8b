// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
)

// SpotCandidate pairs a free spot with its access position projected
// onto the driving lane the query was made from.
type SpotCandidate struct {
	Spot Spot
	Pos  mapmodel.Position
}

// AllFreeSpots returns every free spot reachable ahead of a vehicle
// whose front is at pos on a driving lane. "Ahead" is strict: a
// spot whose access distance equals the vehicle's current distance
// does not qualify.
//
// target filters off-street parking: a private garage is invisible
// to through traffic unless it belongs to the trip's target
// building. Lots have no such filter.
func (s *State) AllFreeSpots(pos mapmodel.Position, vehicle *Vehicle, target mapmodel.BuildingID) []SpotCandidate {
	var candidates []Spot

	for _, l := range s.drivingToParking[pos.Lane] {
		lane := s.onstreetLanes[l]
		parkingDist := s.m.EquivPos(pos, l).DistAlong
		for idx, spot := range lane.Spots() {
			if s.IsFree(spot) && parkingDist < lane.distAlongForCar(idx, vehicle) {
				candidates = append(candidates, spot)
			}
		}
	}

	for _, b := range s.drivingToOffstreet[pos.Lane] {
		garage := s.m.Building(b).Parking
		if garage.PublicGarageName == "" && target != b {
			continue
		}
		if pos.DistAlong < garage.DrivingPos.DistAlong {
			for idx := 0; idx < s.offstreetCapacity[b]; idx++ {
				spot := OffstreetSpot(b, idx)
				if s.IsFree(spot) {
					candidates = append(candidates, spot)
				}
			}
		}
	}

	for _, lot := range s.drivingToLots[pos.Lane] {
		if pos.DistAlong < s.m.Lot(lot).DrivingPos.DistAlong {
			for idx := 0; idx < s.lotCapacity[lot]; idx++ {
				spot := LotSpot(lot, idx)
				if s.IsFree(spot) {
					candidates = append(candidates, spot)
				}
			}
		}
	}

	result := make([]SpotCandidate, len(candidates))
	for i, spot := range candidates {
		result[i] = SpotCandidate{Spot: spot, Pos: s.SpotToDrivingPos(spot, vehicle)}
	}
	return result
}

// SpotToDrivingPos projects a spot onto its driving lane: the point
// a vehicle steers off the lane to take the spot. For on-street
// spots the projection depends on where this particular vehicle's
// bumper lands in the slot; for garages and lots it is the entity's
// fixed access position.
func (s *State) SpotToDrivingPos(spot Spot, vehicle *Vehicle) mapmodel.Position {
	switch spot.Kind {
	case KindOnstreet:
		lane := s.onstreetLanes[spot.Lane]
		onLane := mapmodel.Position{Lane: spot.Lane, DistAlong: lane.distAlongForCar(spot.Index, vehicle)}
		return s.m.EquivPos(onLane, lane.Driving)
	case KindOffstreet:
		return s.m.Building(spot.Building).Parking.DrivingPos
	default:
		return s.m.Lot(spot.Lot).DrivingPos
	}
}

// SpotToSidewalkPos projects a spot onto the adjacent sidewalk: the
// point pedestrians reach the spot from. On-street spots project
// from the slot center, independent of any vehicle's length.
func (s *State) SpotToSidewalkPos(spot Spot) mapmodel.Position {
	switch spot.Kind {
	case KindOnstreet:
		lane := s.onstreetLanes[spot.Lane]
		center := mapmodel.Position{
			Lane:      spot.Lane,
			DistAlong: lane.SpotDistAlong[spot.Index] - mapmodel.ParkingSpotLength/2.0,
		}
		return s.m.EquivPos(center, lane.Sidewalk)
	case KindOffstreet:
		return s.m.Building(spot.Building).Parking.SidewalkPos
	default:
		return s.m.Lot(spot.Lot).SidewalkPos
	}
}
