// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package mapmodel holds the static road network the simulation runs
// on: roads grouped into lanes, car-legal turns between lanes,
// buildings with optional off-street parking, and surface parking
// lots. The network is immutable for the duration of a run: it is
// assembled once through [Builder] (or loaded from a JSONC file via
// [Load]) and only queried afterwards.
//
// Positions along lanes are expressed as [Position], a lane plus a
// distance in metres from the lane start. [Map.EquivPos] translates a
// position between the parallel lanes of one road (driving lane to
// parking lane, parking lane to sidewalk), which is how the parking
// allocator moves between coordinate frames.
//
// Lanes flagged as blackholes are driving lanes from which most of
// the network is unreachable; consumers exclude parking behind them
// entirely.
package mapmodel
