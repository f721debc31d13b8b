// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package mapmodel

import (
	"cmp"
	"fmt"
	"slices"
)

// Builder assembles a [Map]. Add the network piecewise, then call
// Build once; the builder must not be reused afterwards. Build
// validates every cross-reference, so a map obtained from it never
// dangles.
type Builder struct {
	lanes     []Lane
	roads     map[RoadID][]LaneID
	turns     []Turn
	buildings []Building
	lots      []Lot
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{roads: make(map[RoadID][]LaneID)}
}

// AddLane adds a lane. Lanes of one road must be added in
// cross-section order (driving innermost, sidewalk outermost); the
// adjacency queries depend on it.
func (b *Builder) AddLane(lane Lane) *Builder {
	b.lanes = append(b.lanes, lane)
	b.roads[lane.Road] = append(b.roads[lane.Road], lane.ID)
	return b
}

// AddTurn adds a car-legal turn between two driving lanes.
func (b *Builder) AddTurn(src, dst LaneID, length float64) *Builder {
	b.turns = append(b.turns, Turn{ID: TurnID{Src: src, Dst: dst}, Length: length})
	return b
}

// AddBuilding adds a building, with or without off-street parking.
func (b *Builder) AddBuilding(bldg Building) *Builder {
	b.buildings = append(b.buildings, bldg)
	return b
}

// AddLot adds a surface parking lot.
func (b *Builder) AddLot(lot Lot) *Builder {
	b.lots = append(b.lots, lot)
	return b
}

// Build validates the network and returns the immutable Map.
func (b *Builder) Build() (*Map, error) {
	m := &Map{
		lanes:     make(map[LaneID]*Lane, len(b.lanes)),
		roads:     b.roads,
		turnsFrom: make(map[LaneID][]Turn),
		buildings: make(map[BuildingID]*Building, len(b.buildings)),
		lots:      make(map[LotID]*Lot, len(b.lots)),
	}

	for i := range b.lanes {
		lane := &b.lanes[i]
		if _, dup := m.lanes[lane.ID]; dup {
			return nil, fmt.Errorf("mapmodel: duplicate lane %d", lane.ID)
		}
		if lane.Length < 0 {
			return nil, fmt.Errorf("mapmodel: lane %d has negative length", lane.ID)
		}
		m.lanes[lane.ID] = lane
		m.laneIDs = append(m.laneIDs, lane.ID)
	}
	slices.Sort(m.laneIDs)

	for _, turn := range b.turns {
		src := m.lanes[turn.ID.Src]
		dst := m.lanes[turn.ID.Dst]
		if src == nil || dst == nil {
			return nil, fmt.Errorf("mapmodel: %s references a missing lane", turn.ID)
		}
		if src.Type != LaneDriving || dst.Type != LaneDriving {
			return nil, fmt.Errorf("mapmodel: %s connects non-driving lanes", turn.ID)
		}
		m.turnsFrom[turn.ID.Src] = append(m.turnsFrom[turn.ID.Src], turn)
	}
	for _, turns := range m.turnsFrom {
		slices.SortFunc(turns, func(a, b Turn) int {
			return cmp.Compare(a.ID.Dst, b.ID.Dst)
		})
	}

	for i := range b.buildings {
		bldg := &b.buildings[i]
		if _, dup := m.buildings[bldg.ID]; dup {
			return nil, fmt.Errorf("mapmodel: duplicate building %d", bldg.ID)
		}
		if p := bldg.Parking; p != nil {
			if err := m.checkPosition(p.DrivingPos, LaneDriving, fmt.Sprintf("building %d", bldg.ID)); err != nil {
				return nil, err
			}
			if err := m.checkPosition(p.SidewalkPos, LaneSidewalk, fmt.Sprintf("building %d", bldg.ID)); err != nil {
				return nil, err
			}
			if p.Capacity < 0 {
				return nil, fmt.Errorf("mapmodel: building %d has negative capacity", bldg.ID)
			}
		}
		m.buildings[bldg.ID] = bldg
		m.buildingIDs = append(m.buildingIDs, bldg.ID)
	}
	slices.Sort(m.buildingIDs)

	for i := range b.lots {
		lot := &b.lots[i]
		if _, dup := m.lots[lot.ID]; dup {
			return nil, fmt.Errorf("mapmodel: duplicate lot %d", lot.ID)
		}
		if err := m.checkPosition(lot.DrivingPos, LaneDriving, fmt.Sprintf("lot %d", lot.ID)); err != nil {
			return nil, err
		}
		if err := m.checkPosition(lot.SidewalkPos, LaneSidewalk, fmt.Sprintf("lot %d", lot.ID)); err != nil {
			return nil, err
		}
		if lot.Capacity < 0 {
			return nil, fmt.Errorf("mapmodel: lot %d has negative capacity", lot.ID)
		}
		m.lots[lot.ID] = lot
		m.lotIDs = append(m.lotIDs, lot.ID)
	}
	slices.Sort(m.lotIDs)

	return m, nil
}

func (m *Map) checkPosition(pos Position, want LaneType, owner string) error {
	lane := m.lanes[pos.Lane]
	if lane == nil {
		return fmt.Errorf("mapmodel: %s references missing lane %d", owner, pos.Lane)
	}
	if lane.Type != want {
		return fmt.Errorf("mapmodel: %s access position is on a %s lane, want %s", owner, lane.Type, want)
	}
	if pos.DistAlong < 0 || pos.DistAlong > lane.Length {
		return fmt.Errorf("mapmodel: %s access position %.1fm is outside lane %d (%.1fm long)",
			owner, pos.DistAlong, pos.Lane, lane.Length)
	}
	return nil
}
