// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"fmt"
	"log/slog"

	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
)

// ParkingLane is the precomputed geometry of one on-street parking
// lane: its paired driving lane, the adjacent sidewalk, and the
// fixed front-of-slot distances along the lane. Immutable once
// built. Exported fields so snapshots round-trip it by value.
type ParkingLane struct {
	Parking  mapmodel.LaneID `cbor:"parking"`
	Driving  mapmodel.LaneID `cbor:"driving"`
	Sidewalk mapmodel.LaneID `cbor:"sidewalk"`

	// SpotDistAlong[i] is the front of slot i (the point farthest
	// along the lane), in metres from the lane start.
	SpotDistAlong []float64 `cbor:"spot_dist_along"`
}

// newParkingLane builds the geometry helper for a lane, or returns
// (nil, nil) when the lane carries no parking: not a parking lane,
// driving lane blackholed, no adjacent sidewalk (warned), or no room
// for a single slot. A parking lane with no paired driving lane at
// all is a broken network and returns an error.
func newParkingLane(lane *mapmodel.Lane, m *mapmodel.Map, logger *slog.Logger) (*ParkingLane, error) {
	if lane.Type != mapmodel.LaneParking {
		return nil, nil
	}

	driving, ok := m.ParkingToDriving(lane.ID)
	if !ok {
		return nil, fmt.Errorf("parking lane %d has no driving lane", lane.ID)
	}
	if m.Lane(driving).Blackhole {
		return nil, nil
	}
	sidewalk, ok := m.ClosestSidewalk(lane.ID)
	if !ok {
		logger.Warn("parking lane has no sidewalk, dropping it from parking", "lane", lane.ID)
		return nil, nil
	}
	count := lane.NumParkingSpots()
	if count == 0 {
		return nil, nil
	}

	dists := make([]float64, count)
	for idx := range dists {
		dists[idx] = mapmodel.ParkingSpotLength * (2.0 + float64(idx))
	}
	return &ParkingLane{
		Parking:       lane.ID,
		Driving:       driving,
		Sidewalk:      sidewalk,
		SpotDistAlong: dists,
	}, nil
}

// Spots enumerates every spot value on this lane, in slot order.
func (pl *ParkingLane) Spots() []Spot {
	spots := make([]Spot, len(pl.SpotDistAlong))
	for idx := range spots {
		spots[idx] = OnstreetSpot(pl.Parking, idx)
	}
	return spots
}

// distAlongForCar is where the given vehicle's front bumper sits
// when centered in slot idx: the slot front minus half the slack
// between the slot length and the vehicle length.
func (pl *ParkingLane) distAlongForCar(idx int, vehicle *Vehicle) float64 {
	return pl.SpotDistAlong[idx] - (mapmodel.ParkingSpotLength-vehicle.Length)/2.0
}
