// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package mapmodel

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Network file format. Networks are authored as JSONC (JSON with //
// comments and trailing commas) so synthetic fixtures can carry
// inline notes about their topology.

type networkFile struct {
	Roads     []roadRecord     `json:"roads"`
	Turns     []turnRecord     `json:"turns"`
	Buildings []buildingRecord `json:"buildings"`
	Lots      []lotRecord      `json:"lots"`
}

type roadRecord struct {
	ID    RoadID       `json:"id"`
	Lanes []laneRecord `json:"lanes"`
}

type laneRecord struct {
	ID        LaneID   `json:"id"`
	Type      LaneType `json:"type"`
	Length    float64  `json:"length"`
	Blackhole bool     `json:"blackhole,omitempty"`
}

type turnRecord struct {
	Src    LaneID  `json:"src"`
	Dst    LaneID  `json:"dst"`
	Length float64 `json:"length"`
}

type buildingRecord struct {
	ID      BuildingID     `json:"id"`
	Parking *parkingRecord `json:"parking,omitempty"`
}

type parkingRecord struct {
	DrivingPos       Position `json:"driving_pos"`
	SidewalkPos      Position `json:"sidewalk_pos"`
	Capacity         int      `json:"capacity"`
	PublicGarageName string   `json:"public_garage_name,omitempty"`
}

type lotRecord struct {
	ID          LotID    `json:"id"`
	DrivingPos  Position `json:"driving_pos"`
	SidewalkPos Position `json:"sidewalk_pos"`
	Capacity    int      `json:"capacity"`
}

// Parse strips JSONC comments and trailing commas from data, then
// builds the network it describes.
func Parse(data []byte) (*Map, error) {
	stripped := jsonc.ToJSON(data)

	var file networkFile
	if err := json.Unmarshal(stripped, &file); err != nil {
		return nil, fmt.Errorf("parsing network: %w", err)
	}

	builder := NewBuilder()
	for _, road := range file.Roads {
		for _, lane := range road.Lanes {
			builder.AddLane(Lane{
				ID:        lane.ID,
				Road:      road.ID,
				Type:      lane.Type,
				Length:    lane.Length,
				Blackhole: lane.Blackhole,
			})
		}
	}
	for _, turn := range file.Turns {
		builder.AddTurn(turn.Src, turn.Dst, turn.Length)
	}
	for _, bldg := range file.Buildings {
		building := Building{ID: bldg.ID}
		if bldg.Parking != nil {
			building.Parking = &OffstreetParking{
				DrivingPos:       bldg.Parking.DrivingPos,
				SidewalkPos:      bldg.Parking.SidewalkPos,
				Capacity:         bldg.Parking.Capacity,
				PublicGarageName: bldg.Parking.PublicGarageName,
			}
		}
		builder.AddBuilding(building)
	}
	for _, lot := range file.Lots {
		builder.AddLot(Lot{
			ID:          lot.ID,
			DrivingPos:  lot.DrivingPos,
			SidewalkPos: lot.SidewalkPos,
			Capacity:    lot.Capacity,
		})
	}
	return builder.Build()
}

// Load reads a JSONC network file from disk and builds the Map.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
