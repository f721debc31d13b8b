// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package mapmodel

import (
	"fmt"
	"math"
)

// Typed identifiers for network entities. They are plain integers
// assigned by whatever produced the network (the OSM importer, a
// synthetic generator, a test fixture) and are stable for the
// lifetime of a run.
type (
	RoadID     int
	LaneID     int
	BuildingID int
	LotID      int
)

// TurnID identifies a turn by its source and destination lane. Turns
// are directed; A→B and B→A are distinct turns.
type TurnID struct {
	Src LaneID `json:"src"`
	Dst LaneID `json:"dst"`
}

func (t TurnID) String() string {
	return fmt.Sprintf("turn(%d->%d)", t.Src, t.Dst)
}

// LaneType classifies a lane within a road.
type LaneType string

const (
	LaneDriving  LaneType = "driving"
	LaneParking  LaneType = "parking"
	LaneSidewalk LaneType = "sidewalk"
)

// ParkingSpotLength is the nominal curb length of one on-street
// parking slot, in metres. Slot geometry along a parking lane is
// derived from this constant alone.
const ParkingSpotLength = 8.0

// Lane is one lane of a road.
type Lane struct {
	ID     LaneID
	Road   RoadID
	Type   LaneType
	Length float64 // metres

	// Blackhole marks a driving lane from which most of the network
	// is unreachable after connectivity analysis. Parking reached
	// via a blackholed lane is never indexed.
	Blackhole bool
}

// NumParkingSpots returns how many on-street slots fit on this lane.
// The first slot's front sits two slot lengths past the lane start,
// so a lane shorter than three slot lengths has no spots.
func (l *Lane) NumParkingSpots() int {
	n := int(math.Floor(l.Length/ParkingSpotLength)) - 1
	if n < 0 {
		return 0
	}
	return n
}

// Turn is a car-legal connection from the end of one lane to the
// start of another, with the geometric length of the connecting arc.
type Turn struct {
	ID     TurnID
	Length float64 // metres
}

// Position is a point along a lane, measured from the lane start.
type Position struct {
	Lane      LaneID  `json:"lane"`
	DistAlong float64 `json:"dist_along"`
}

func (p Position) String() string {
	return fmt.Sprintf("lane %d @ %.1fm", p.Lane, p.DistAlong)
}

// OffstreetParking describes a building's garage: where cars enter
// from the road, where pedestrians enter from the sidewalk, and how
// many spots it holds. PublicGarageName is empty for private garages,
// which are invisible to through traffic.
type OffstreetParking struct {
	DrivingPos       Position
	SidewalkPos      Position
	Capacity         int
	PublicGarageName string
}

// Building is a destination in the network. Parking is nil for
// buildings without a garage.
type Building struct {
	ID      BuildingID
	Parking *OffstreetParking
}

// Lot is a surface parking lot with a single road access point.
type Lot struct {
	ID          LotID
	DrivingPos  Position
	SidewalkPos Position
	Capacity    int
}

// Map is the immutable road network. Construct one with [Builder] or
// [Load]; the query methods are safe for concurrent use.
type Map struct {
	lanes     map[LaneID]*Lane
	roads     map[RoadID][]LaneID // lanes in cross-section order
	turnsFrom map[LaneID][]Turn   // car-legal only, sorted by dst
	buildings map[BuildingID]*Building
	lots      map[LotID]*Lot

	laneIDs     []LaneID
	buildingIDs []BuildingID
	lotIDs      []LotID
}

// Lane returns the lane with the given ID, or nil if it does not
// exist.
func (m *Map) Lane(id LaneID) *Lane {
	return m.lanes[id]
}

// Lanes returns all lane IDs in ascending order.
func (m *Map) Lanes() []LaneID {
	return m.laneIDs
}

// Buildings returns all building IDs in ascending order.
func (m *Map) Buildings() []BuildingID {
	return m.buildingIDs
}

// Building returns the building with the given ID, or nil.
func (m *Map) Building(id BuildingID) *Building {
	return m.buildings[id]
}

// Lots returns all lot IDs in ascending order.
func (m *Map) Lots() []LotID {
	return m.lotIDs
}

// Lot returns the lot with the given ID, or nil.
func (m *Map) Lot(id LotID) *Lot {
	return m.lots[id]
}

// TurnsFrom returns the car-legal turns leaving the given lane,
// sorted by destination lane for deterministic traversal order.
func (m *Map) TurnsFrom(id LaneID) []Turn {
	return m.turnsFrom[id]
}

// ParkingToDriving returns the driving lane paired with a parking
// lane: the nearest driving lane in the same road's cross-section.
// ok is false when the road has no driving lane at all, which is a
// network configuration fault the caller treats as fatal.
func (m *Map) ParkingToDriving(parking LaneID) (LaneID, bool) {
	return m.closestOfType(parking, LaneDriving)
}

// ClosestSidewalk returns the sidewalk adjacent to the given lane,
// or ok=false when the road has none.
func (m *Map) ClosestSidewalk(id LaneID) (LaneID, bool) {
	return m.closestOfType(id, LaneSidewalk)
}

func (m *Map) closestOfType(id LaneID, want LaneType) (LaneID, bool) {
	lane := m.lanes[id]
	if lane == nil {
		return 0, false
	}
	siblings := m.roads[lane.Road]
	from := -1
	for i, sib := range siblings {
		if sib == id {
			from = i
			break
		}
	}
	best := LaneID(0)
	bestDist := math.MaxInt32
	found := false
	for i, sib := range siblings {
		if m.lanes[sib].Type != want {
			continue
		}
		dist := i - from
		if dist < 0 {
			dist = -dist
		}
		if !found || dist < bestDist {
			best, bestDist, found = sib, dist, true
		}
	}
	return best, found
}

// EquivPos translates a position onto a parallel lane of the same
// road, scaling the distance proportionally so that the start and
// end of the two lanes correspond. The result is clamped to the
// target lane's extent.
func (m *Map) EquivPos(pos Position, other LaneID) Position {
	src := m.lanes[pos.Lane]
	dst := m.lanes[other]
	dist := 0.0
	if src.Length > 0 {
		dist = pos.DistAlong / src.Length * dst.Length
	}
	dist = min(max(dist, 0), dst.Length)
	return Position{Lane: other, DistAlong: dist}
}
