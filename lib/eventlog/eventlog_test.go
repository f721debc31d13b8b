// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/streetsim-foundation/streetsim/lib/eventlog"
	"github.com/streetsim-foundation/streetsim/lib/parking"
)

func openTestLog(t *testing.T) *eventlog.Log {
	t.Helper()
	log, err := eventlog.Open(filepath.Join(t.TempDir(), "events.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := log.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return log
}

func TestAppendAndCount(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	spotA := parking.OnstreetSpot(11, 0)
	spotB := parking.LotSpot(1, 2)
	err := log.Append(ctx, 1, []parking.Event{
		{Kind: parking.EventCarReachedSpot, Car: 7, Spot: spotA},
		{Kind: parking.EventCarReachedSpot, Car: 8, Spot: spotB},
	})
	if err != nil {
		t.Fatalf("Append step 1: %v", err)
	}
	err = log.Append(ctx, 2, []parking.Event{
		{Kind: parking.EventCarLeftSpot, Car: 7, Spot: spotA},
	})
	if err != nil {
		t.Fatalf("Append step 2: %v", err)
	}

	counts, err := log.CountByKind(ctx)
	if err != nil {
		t.Fatalf("CountByKind: %v", err)
	}
	if counts[parking.EventCarReachedSpot] != 2 {
		t.Errorf("reached count = %d, want 2", counts[parking.EventCarReachedSpot])
	}
	if counts[parking.EventCarLeftSpot] != 1 {
		t.Errorf("left count = %d, want 1", counts[parking.EventCarLeftSpot])
	}
}

func TestAppendEmptyBatch(t *testing.T) {
	log := openTestLog(t)
	if err := log.Append(context.Background(), 1, nil); err != nil {
		t.Fatalf("Append of empty batch: %v", err)
	}
}

func TestCarHistoryOrdered(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	first := parking.OnstreetSpot(11, 1)
	second := parking.OffstreetSpot(3, 0)
	steps := []struct {
		step  int
		event parking.Event
	}{
		{1, parking.Event{Kind: parking.EventCarReachedSpot, Car: 5, Spot: first}},
		{4, parking.Event{Kind: parking.EventCarLeftSpot, Car: 5, Spot: first}},
		{6, parking.Event{Kind: parking.EventCarReachedSpot, Car: 5, Spot: second}},
	}
	for _, s := range steps {
		if err := log.Append(ctx, s.step, []parking.Event{s.event}); err != nil {
			t.Fatalf("Append step %d: %v", s.step, err)
		}
	}

	history, err := log.CarHistory(ctx, 5)
	if err != nil {
		t.Fatalf("CarHistory: %v", err)
	}
	want := []string{first.String(), second.String()}
	if len(history) != len(want) {
		t.Fatalf("history = %v, want %v", history, want)
	}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, history[i], want[i])
		}
	}
}
