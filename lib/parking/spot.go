// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"cmp"
	"fmt"

	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
)

// SpotKind discriminates the three structurally different kinds of
// parking spot.
type SpotKind uint8

const (
	// KindOnstreet is a curb slot on a parking lane.
	KindOnstreet SpotKind = iota
	// KindOffstreet is a slot inside a building's garage.
	KindOffstreet
	// KindLot is a slot in a surface parking lot.
	KindLot
)

func (k SpotKind) String() string {
	switch k {
	case KindOnstreet:
		return "onstreet"
	case KindOffstreet:
		return "offstreet"
	case KindLot:
		return "lot"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Spot addresses one parking location. It is a closed sum over the
// three kinds: exactly one of Lane, Building, or Lot is meaningful,
// selected by Kind, with Index identifying the slot within that
// entity. Spots are plain values: equality is structural and they
// are used directly as map keys. Construct them with [OnstreetSpot],
// [OffstreetSpot], or [LotSpot].
type Spot struct {
	Kind     SpotKind            `cbor:"kind"`
	Lane     mapmodel.LaneID     `cbor:"lane,omitempty"`
	Building mapmodel.BuildingID `cbor:"building,omitempty"`
	Lot      mapmodel.LotID      `cbor:"lot,omitempty"`
	Index    int                 `cbor:"index"`
}

// OnstreetSpot is the Index-th slot on the given parking lane.
func OnstreetSpot(lane mapmodel.LaneID, index int) Spot {
	return Spot{Kind: KindOnstreet, Lane: lane, Index: index}
}

// OffstreetSpot is the Index-th slot in the given building's garage.
func OffstreetSpot(building mapmodel.BuildingID, index int) Spot {
	return Spot{Kind: KindOffstreet, Building: building, Index: index}
}

// LotSpot is the Index-th slot in the given lot.
func LotSpot(lot mapmodel.LotID, index int) Spot {
	return Spot{Kind: KindLot, Lot: lot, Index: index}
}

// Compare orders spots by kind, then owning entity, then index. The
// order is total and is what makes snapshot encoding and search
// tie-breaking deterministic.
func (s Spot) Compare(o Spot) int {
	if c := cmp.Compare(s.Kind, o.Kind); c != 0 {
		return c
	}
	switch s.Kind {
	case KindOnstreet:
		if c := cmp.Compare(s.Lane, o.Lane); c != 0 {
			return c
		}
	case KindOffstreet:
		if c := cmp.Compare(s.Building, o.Building); c != 0 {
			return c
		}
	case KindLot:
		if c := cmp.Compare(s.Lot, o.Lot); c != 0 {
			return c
		}
	}
	return cmp.Compare(s.Index, o.Index)
}

func (s Spot) String() string {
	switch s.Kind {
	case KindOnstreet:
		return fmt.Sprintf("onstreet/%d/%d", s.Lane, s.Index)
	case KindOffstreet:
		return fmt.Sprintf("offstreet/%d/%d", s.Building, s.Index)
	case KindLot:
		return fmt.Sprintf("lot/%d/%d", s.Lot, s.Index)
	default:
		return fmt.Sprintf("spot(kind=%d)", s.Kind)
	}
}
