// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package journal records daemon lifecycle and controller events to a local
// sqlite database. It is an audit trail, not a configuration store: nothing
// is ever read back into the controller from it.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Event types recorded by the daemon.
const (
	TypeStartup    = "STARTUP"
	TypeShutdown   = "SHUTDOWN"
	TypeCompressor = "COMPRESSOR"
	TypePanic      = "PANIC"
)

const sqliteDriverName = "sqlite"

const schemaEvents = `
CREATE TABLE IF NOT EXISTS frigostat_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    detail TEXT NOT NULL
);
`

// Journal appends events to the sqlite file.
type Journal struct {
	db *sql.DB
}

// NewJournal wraps an already-open database handle. Production code uses
// Open; tests substitute a mock handle here.
func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Open opens or creates the journal database and ensures the schema.
func Open(path string) (*Journal, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open journal at %q: %w", path, err)
	}

	// One connection: sqlite handles a single writer best, and the daemon
	// appends from one goroutine anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal db: %w", err)
	}

	return NewJournal(db), nil
}

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaEvents); err != nil {
		return fmt.Errorf("apply journal schema: %w", err)
	}
	return nil
}

// Append records one event. The id and timestamp are generated here so
// callers only name what happened.
func (j *Journal) Append(ctx context.Context, eventType, detail string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO frigostat_events (id, occurred_at, type, detail)
		VALUES (?, ?, ?, ?)
	`,
		uuid.NewString(),
		time.Now().UTC().Format("2006-01-02 15:04:05"),
		eventType,
		detail,
	)
	if err != nil {
		return fmt.Errorf("journal append: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
