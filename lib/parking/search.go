// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"container/heap"
	"fmt"

	"github.com/streetsim-foundation/streetsim/lib/mapmodel"
)

// StepKind discriminates the two kinds of path step.
type StepKind uint8

const (
	// StepLane traverses a lane end to end.
	StepLane StepKind = iota
	// StepTurn crosses an intersection between two lanes.
	StepTurn
)

// PathStep is one element of a driving path: either a lane or the
// turn connecting two lanes. Construct with [LaneStep] or [TurnStep].
type PathStep struct {
	Kind StepKind
	Lane mapmodel.LaneID
	Turn mapmodel.TurnID
}

// LaneStep is a step traversing the given lane.
func LaneStep(lane mapmodel.LaneID) PathStep {
	return PathStep{Kind: StepLane, Lane: lane}
}

// TurnStep is a step crossing the given turn.
func TurnStep(turn mapmodel.TurnID) PathStep {
	return PathStep{Kind: StepTurn, Turn: turn}
}

func (p PathStep) String() string {
	if p.Kind == StepTurn {
		return p.Turn.String()
	}
	return fmt.Sprintf("lane(%d)", p.Lane)
}

// searchQueue is a min-heap of lanes ordered by distance traveled so
// far, ties broken by lane ID so results are reproducible.
type searchQueue []searchItem

type searchItem struct {
	dist float64
	lane mapmodel.LaneID
}

func (q searchQueue) Len() int { return len(q) }
func (q searchQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].lane < q[j].lane
}
func (q searchQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *searchQueue) Push(x any) { *q = append(*q, x.(searchItem)) }
func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// PathToFreeParkingSpot finds the free spot nearest to the start
// lane by expanding the lane graph best-first via car-legal turns,
// and returns the path to it: alternating turn and lane steps,
// beginning with the turn out of start (never a step for the start
// lane itself). Also returned are the chosen spot and its driving
// position on the lane the path ends at.
//
// The start lane itself is not examined: if it had a usable spot
// the caller would not be searching. This matters when a spot opens
// up on the start lane behind the car.
//
// The search assumes the driver somehow knows which spots are
// currently free, even far away. Nothing is reserved here: between
// this call and the eventual [State.ReserveSpot], another vehicle
// can take the spot, producing realistic churn under contention.
//
// ok is false when the entire reachable graph holds no free spot, a
// legitimate outcome the caller must handle, not an error.
func (s *State) PathToFreeParkingSpot(start mapmodel.LaneID, vehicle *Vehicle, target mapmodel.BuildingID) (steps []PathStep, spot Spot, pos mapmodel.Position, ok bool) {
	// backrefs records, for each lane reached, the turn used to
	// first reach it. First-reached wins: a later, longer route to
	// the same lane is discarded at expansion time.
	backrefs := make(map[mapmodel.LaneID]mapmodel.TurnID)

	queue := &searchQueue{{dist: 0, lane: start}}
	heap.Init(queue)

	for queue.Len() > 0 {
		item := heap.Pop(queue).(searchItem)
		current := item.lane

		if current != start {
			// Of the lane's free spots, take the one closest to the
			// lane start, which is where we arrived from. Spot
			// order breaks exact distance ties.
			if best, found := closestCandidate(s.AllFreeSpots(mapmodel.Position{Lane: current}, vehicle, target)); found {
				return buildPath(backrefs, start, current), best.Spot, best.Pos, true
			}
		}

		for _, turn := range s.m.TurnsFrom(current) {
			if _, seen := backrefs[turn.ID.Dst]; seen {
				continue
			}
			backrefs[turn.ID.Dst] = turn.ID
			heap.Push(queue, searchItem{
				dist: item.dist + turn.Length + s.m.Lane(current).Length,
				lane: turn.ID.Dst,
			})
		}
	}

	return nil, Spot{}, mapmodel.Position{}, false
}

func closestCandidate(candidates []SpotCandidate) (SpotCandidate, bool) {
	if len(candidates) == 0 {
		return SpotCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Pos.DistAlong < best.Pos.DistAlong ||
			(c.Pos.DistAlong == best.Pos.DistAlong && c.Spot.Compare(best.Spot) < 0) {
			best = c
		}
	}
	return best, true
}

// buildPath walks backrefs from the hit lane to the start lane and
// reverses the steps into forward order. The start lane's own step
// is omitted.
func buildPath(backrefs map[mapmodel.LaneID]mapmodel.TurnID, start, hit mapmodel.LaneID) []PathStep {
	var reversed []PathStep
	current := hit
	for current != start {
		turn := backrefs[current]
		reversed = append(reversed, LaneStep(current), TurnStep(turn))
		current = turn.Src
	}
	steps := make([]PathStep, len(reversed))
	for i, step := range reversed {
		steps[len(reversed)-1-i] = step
	}
	return steps
}
