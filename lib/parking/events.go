// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

// EventKind names a parking occurrence.
type EventKind string

const (
	// EventCarReachedSpot is emitted when occupancy is committed.
	EventCarReachedSpot EventKind = "car_reached_parking_spot"
	// EventCarLeftSpot is emitted when a parked car departs.
	EventCarLeftSpot EventKind = "car_left_parking_spot"
)

// Event is one parking or unparking occurrence. Events accumulate in
// the store and are drained wholesale by [State.CollectEvents].
type Event struct {
	Kind EventKind `cbor:"kind"`
	Car  CarID     `cbor:"car"`
	Spot Spot      `cbor:"spot"`
}

// CollectEvents drains and returns every event buffered since the
// previous drain. The stepping loop calls this once per step for
// statistics and UI.
func (s *State) CollectEvents() []Event {
	events := s.events
	s.events = nil
	return events
}
