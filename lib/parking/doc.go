// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package parking is the parking-resource allocator of the
// simulation. It owns every parking spot in the network (on-street
// curb slots, off-street building garages, and surface lots) and is
// the single authority on which spots are free, reserved, or
// occupied.
//
// The [State] is built once from the static [mapmodel.Map] and then
// mutated only through its own methods, on a single logical timeline
// driven by the stepping loop. Claiming a spot is a two-phase
// protocol: [State.ReserveSpot] at decision time (the spot
// immediately stops being free, before the vehicle travels to it),
// then [State.AddParkedCar] on arrival. [State.RemoveParkedCar]
// frees the spot again on departure. Violating the protocol's
// preconditions is a bookkeeping bug in the caller, not a modeled
// condition: those paths panic with a [FatalError] rather than
// self-correct.
//
// When a vehicle's destination has no free spot in sight,
// [State.PathToFreeParkingSpot] searches the lane graph outward,
// best-first by distance, and returns the path to the nearest lane
// with a free spot. Finding nothing is a legitimate outcome, not an
// error.
//
// Parking and unparking occurrences accumulate in an internal buffer
// drained by [State.CollectEvents] once per step. The whole store
// serializes to a [Snapshot] whose encoding is deterministic: the
// same logical state always produces identical bytes.
package parking
