// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import "fmt"

// FatalError reports an internal-consistency violation: reserving a
// spot that is not free, committing occupancy for an unreserved
// spot, removing a car that is not parked. These are bugs in the
// caller's bookkeeping, not modeled conditions, so the store panics
// with a *FatalError instead of returning it. Silently clamping
// state would hide the bug and break the store's invariants.
type FatalError struct {
	Op     string
	Spot   Spot
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("parking: %s on %s: %s", e.Op, e.Spot, e.Reason)
}

func fatal(op string, spot Spot, format string, args ...any) {
	panic(&FatalError{Op: op, Spot: spot, Reason: fmt.Sprintf(format, args...)})
}
