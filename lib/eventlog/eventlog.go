// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventlog persists parking events to SQLite. The stepping
// loop drains [parking.State.CollectEvents] once per step and
// appends the batch here; the table is the run's permanent record
// for statistics tooling, while the in-memory buffer stays
// ephemeral.
package eventlog

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/streetsim-foundation/streetsim/lib/parking"
	"github.com/streetsim-foundation/streetsim/lib/sqlitepool"
)

const schema = `
CREATE TABLE IF NOT EXISTS parking_events (
	id   INTEGER PRIMARY KEY,
	step INTEGER NOT NULL,
	kind TEXT    NOT NULL,
	car  INTEGER NOT NULL,
	spot TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS parking_events_step ON parking_events (step);
CREATE INDEX IF NOT EXISTS parking_events_kind ON parking_events (kind);
`

// Log is a SQLite-backed sink for parking events.
type Log struct {
	pool *sqlitepool.Pool
}

// Open creates or opens the event database at path.
func Open(path string, logger *slog.Logger) (*Log, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   path,
		Logger: logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("eventlog: %w", err)
	}
	return &Log{pool: pool}, nil
}

// Append stores one step's drained events in a single transaction.
// An empty batch is a no-op.
func (l *Log) Append(ctx context.Context, step int, events []parking.Event) error {
	if len(events) == 0 {
		return nil
	}
	conn, err := l.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer l.pool.Put(conn)

	endTx, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("eventlog: begin: %w", err)
	}
	defer endTx(&err)

	for _, event := range events {
		err = sqlitex.Execute(conn,
			"INSERT INTO parking_events (step, kind, car, spot) VALUES (?, ?, ?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{step, string(event.Kind), int(event.Car), event.Spot.String()},
			})
		if err != nil {
			return fmt.Errorf("eventlog: insert: %w", err)
		}
	}
	return nil
}

// CountByKind returns how many events of each kind have been
// recorded over the whole run.
func (l *Log) CountByKind(ctx context.Context) (map[parking.EventKind]int, error) {
	conn, err := l.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer l.pool.Put(conn)

	counts := make(map[parking.EventKind]int)
	err = sqlitex.Execute(conn,
		"SELECT kind, COUNT(*) FROM parking_events GROUP BY kind",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				counts[parking.EventKind(stmt.ColumnText(0))] = stmt.ColumnInt(1)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("eventlog: count: %w", err)
	}
	return counts, nil
}

// CarHistory returns the spots a car has reached, in step order.
func (l *Log) CarHistory(ctx context.Context, car parking.CarID) ([]string, error) {
	conn, err := l.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer l.pool.Put(conn)

	var spots []string
	err = sqlitex.Execute(conn,
		"SELECT spot FROM parking_events WHERE car = ? AND kind = ? ORDER BY step, id",
		&sqlitex.ExecOptions{
			Args: []any{int(car), string(parking.EventCarReachedSpot)},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				spots = append(spots, stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("eventlog: car history: %w", err)
	}
	return spots, nil
}

// Close flushes and closes the underlying pool.
func (l *Log) Close() error {
	return l.pool.Close()
}
