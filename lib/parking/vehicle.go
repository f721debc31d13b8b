// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

// CarID identifies a vehicle. Assigned by the trip layer above this
// package.
type CarID int

// PersonID identifies a person who may own a vehicle.
type PersonID int

// Vehicle carries the physical attributes the allocator needs: how
// long the car is (slot centering, "does it fit ahead of me"
// filtering) and who owns it, if anyone.
type Vehicle struct {
	ID     CarID     `cbor:"id"`
	Length float64   `cbor:"length"` // metres
	Owner  *PersonID `cbor:"owner,omitempty"`
}

// ParkedCar binds a vehicle to the spot it occupies. Once handed to
// [State.AddParkedCar] the store owns the record exclusively until
// [State.RemoveParkedCar].
type ParkedCar struct {
	Vehicle Vehicle `cbor:"vehicle"`
	Spot    Spot    `cbor:"spot"`
}
