// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package mapmodel

import "testing"

func TestParseNetwork(t *testing.T) {
	data := []byte(`{
		// One road with the full cross-section, one side street.
		"roads": [
			{"id": 1, "lanes": [
				{"id": 10, "type": "driving", "length": 100},
				{"id": 11, "type": "parking", "length": 100},
				{"id": 12, "type": "sidewalk", "length": 100},
			]},
			{"id": 2, "lanes": [
				{"id": 20, "type": "driving", "length": 60, "blackhole": true},
			]},
		],
		"turns": [
			{"src": 10, "dst": 20, "length": 5},
		],
		"buildings": [
			{"id": 1, "parking": {
				"driving_pos": {"lane": 10, "dist_along": 30},
				"sidewalk_pos": {"lane": 12, "dist_along": 30},
				"capacity": 5,
				"public_garage_name": "central garage",
			}},
			{"id": 2},
		],
		"lots": [
			{"id": 1,
			 "driving_pos": {"lane": 10, "dist_along": 80},
			 "sidewalk_pos": {"lane": 12, "dist_along": 80},
			 "capacity": 12},
		],
	}`)

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := len(m.Lanes()); got != 4 {
		t.Errorf("lanes = %d, want 4", got)
	}
	if !m.Lane(20).Blackhole {
		t.Error("lane 20 should be a blackhole")
	}
	if m.Building(2).Parking != nil {
		t.Error("building 2 should have no parking")
	}
	garage := m.Building(1).Parking
	if garage == nil || garage.Capacity != 5 || garage.PublicGarageName != "central garage" {
		t.Errorf("building 1 parking = %+v", garage)
	}
	if lot := m.Lot(1); lot == nil || lot.Capacity != 12 {
		t.Errorf("lot 1 = %+v", lot)
	}
	if turns := m.TurnsFrom(10); len(turns) != 1 || turns[0].ID.Dst != 20 {
		t.Errorf("turns from 10 = %+v", turns)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte(`{"roads": [}`)); err == nil {
		t.Fatal("Parse accepted malformed JSON")
	}
}
