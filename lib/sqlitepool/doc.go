// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the simulation's standard SQLite
// connection pool.
//
// It wraps zombiezen.com/go/sqlite with a fixed set of pragmas (WAL,
// NORMAL synchronous, busy timeout, in-memory temp store) sized for a
// single-writer workload: the stepping loop appends, ad-hoc tooling
// reads. Callers [Pool.Take] a connection, work with plain SQL via
// sqlitex, and [Pool.Put] it back; connections are not safe for
// concurrent use, the pool is.
//
// The package is intentionally thin: no query builder, no
// transaction abstraction. Consumers (the parking event log) write
// SQL directly.
package sqlitepool
