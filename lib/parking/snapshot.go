// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"cmp"
	"io"
	"log/slog"
	"slices"

	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
)

// Snapshot is the store's complete logical state in an ordered-map
// representation: every internal mapping flattened to an entry slice
// sorted by key. Encoding a Snapshot with lib/codec therefore yields
// identical bytes for identical logical state. Restore with
// [NewFromSnapshot] against the same network.
type Snapshot struct {
	ParkedCars []ParkedCar    `cbor:"parked_cars"`
	Occupants  []SpotOccupant `cbor:"occupants"`
	Reserved   []Spot         `cbor:"reserved_spots"`

	OnstreetLanes    []ParkingLane      `cbor:"onstreet_lanes"`
	DrivingToParking []LaneParkingFeed  `cbor:"driving_to_parking_lanes"`
	Offstreet        []BuildingCapacity `cbor:"offstreet_capacity"`
	DrivingToBldgs   []LaneBuildingFeed `cbor:"driving_to_offstreet"`
	Lots             []LotCapacity      `cbor:"lot_capacity"`
	DrivingToLots    []LaneLotFeed      `cbor:"driving_to_lots"`

	Events []Event `cbor:"events"`
}

// SpotOccupant is one occupants entry.
type SpotOccupant struct {
	Spot Spot  `cbor:"spot"`
	Car  CarID `cbor:"car"`
}

// LaneParkingFeed lists the parking lanes feeding a driving lane.
type LaneParkingFeed struct {
	Driving mapmodel.LaneID   `cbor:"driving"`
	Parking []mapmodel.LaneID `cbor:"parking"`
}

// BuildingCapacity is one building's garage capacity.
type BuildingCapacity struct {
	Building mapmodel.BuildingID `cbor:"building"`
	Spots    int                 `cbor:"spots"`
}

// LaneBuildingFeed lists the garages entered from a driving lane.
type LaneBuildingFeed struct {
	Driving   mapmodel.LaneID       `cbor:"driving"`
	Buildings []mapmodel.BuildingID `cbor:"buildings"`
}

// LotCapacity is one lot's capacity.
type LotCapacity struct {
	Lot   mapmodel.LotID `cbor:"lot"`
	Spots int            `cbor:"spots"`
}

// LaneLotFeed lists the lots entered from a driving lane.
type LaneLotFeed struct {
	Driving mapmodel.LaneID  `cbor:"driving"`
	Lots    []mapmodel.LotID `cbor:"lots"`
}

// Snapshot flattens the store into its serializable form. The
// receiver is not modified; pending events are included so a resumed
// run drains exactly what the saved run had buffered.
func (s *State) Snapshot() *Snapshot {
	snap := &Snapshot{Events: slices.Clone(s.events)}

	for _, p := range s.parkedCars {
		snap.ParkedCars = append(snap.ParkedCars, p)
	}
	slices.SortFunc(snap.ParkedCars, func(a, b ParkedCar) int {
		return cmp.Compare(a.Vehicle.ID, b.Vehicle.ID)
	})

	for spot, car := range s.occupants {
		snap.Occupants = append(snap.Occupants, SpotOccupant{Spot: spot, Car: car})
	}
	slices.SortFunc(snap.Occupants, func(a, b SpotOccupant) int {
		return a.Spot.Compare(b.Spot)
	})

	for spot := range s.reserved {
		snap.Reserved = append(snap.Reserved, spot)
	}
	slices.SortFunc(snap.Reserved, Spot.Compare)

	for _, lane := range s.onstreetLanes {
		snap.OnstreetLanes = append(snap.OnstreetLanes, *lane)
	}
	slices.SortFunc(snap.OnstreetLanes, func(a, b ParkingLane) int {
		return cmp.Compare(a.Parking, b.Parking)
	})

	for driving, parking := range s.drivingToParking {
		snap.DrivingToParking = append(snap.DrivingToParking, LaneParkingFeed{
			Driving: driving, Parking: slices.Clone(parking),
		})
	}
	slices.SortFunc(snap.DrivingToParking, func(a, b LaneParkingFeed) int {
		return cmp.Compare(a.Driving, b.Driving)
	})

	for building, capacity := range s.offstreetCapacity {
		snap.Offstreet = append(snap.Offstreet, BuildingCapacity{Building: building, Spots: capacity})
	}
	slices.SortFunc(snap.Offstreet, func(a, b BuildingCapacity) int {
		return cmp.Compare(a.Building, b.Building)
	})

	for driving, buildings := range s.drivingToOffstreet {
		snap.DrivingToBldgs = append(snap.DrivingToBldgs, LaneBuildingFeed{
			Driving: driving, Buildings: slices.Clone(buildings),
		})
	}
	slices.SortFunc(snap.DrivingToBldgs, func(a, b LaneBuildingFeed) int {
		return cmp.Compare(a.Driving, b.Driving)
	})

	for lot, capacity := range s.lotCapacity {
		snap.Lots = append(snap.Lots, LotCapacity{Lot: lot, Spots: capacity})
	}
	slices.SortFunc(snap.Lots, func(a, b LotCapacity) int {
		return cmp.Compare(a.Lot, b.Lot)
	})

	for driving, lots := range s.drivingToLots {
		snap.DrivingToLots = append(snap.DrivingToLots, LaneLotFeed{
			Driving: driving, Lots: slices.Clone(lots),
		})
	}
	slices.SortFunc(snap.DrivingToLots, func(a, b LaneLotFeed) int {
		return cmp.Compare(a.Driving, b.Driving)
	})

	return snap
}

// NewFromSnapshot rebuilds a store from a snapshot taken against the
// same network. The indexes come from the snapshot, not from a fresh
// network scan, so the restored store is structurally identical to
// the saved one.
func NewFromSnapshot(m *mapmodel.Map, snap *Snapshot, logger *slog.Logger) *State {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	s := &State{
		parkedCars: make(map[CarID]ParkedCar, len(snap.ParkedCars)),
		occupants:  make(map[Spot]CarID, len(snap.Occupants)),
		reserved:   make(map[Spot]struct{}, len(snap.Reserved)),

		onstreetLanes:      make(map[mapmodel.LaneID]*ParkingLane, len(snap.OnstreetLanes)),
		drivingToParking:   make(map[mapmodel.LaneID][]mapmodel.LaneID, len(snap.DrivingToParking)),
		offstreetCapacity:  make(map[mapmodel.BuildingID]int, len(snap.Offstreet)),
		drivingToOffstreet: make(map[mapmodel.LaneID][]mapmodel.BuildingID, len(snap.DrivingToBldgs)),
		lotCapacity:        make(map[mapmodel.LotID]int, len(snap.Lots)),
		drivingToLots:      make(map[mapmodel.LaneID][]mapmodel.LotID, len(snap.DrivingToLots)),

		events: slices.Clone(snap.Events),
		m:      m,
		logger: logger,
	}

	for _, p := range snap.ParkedCars {
		s.parkedCars[p.Vehicle.ID] = p
	}
	for _, o := range snap.Occupants {
		s.occupants[o.Spot] = o.Car
	}
	for _, spot := range snap.Reserved {
		s.reserved[spot] = struct{}{}
	}
	for _, lane := range snap.OnstreetLanes {
		lane := lane
		s.onstreetLanes[lane.Parking] = &lane
	}
	for _, feed := range snap.DrivingToParking {
		s.drivingToParking[feed.Driving] = slices.Clone(feed.Parking)
	}
	for _, b := range snap.Offstreet {
		s.offstreetCapacity[b.Building] = b.Spots
	}
	for _, feed := range snap.DrivingToBldgs {
		s.drivingToOffstreet[feed.Driving] = slices.Clone(feed.Buildings)
	}
	for _, lot := range snap.Lots {
		s.lotCapacity[lot.Lot] = lot.Spots
	}
	for _, feed := range snap.DrivingToLots {
		s.drivingToLots[feed.Driving] = slices.Clone(feed.Lots)
	}

	return s
}
