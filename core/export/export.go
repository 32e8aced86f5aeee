// Package export loads a validated timeline into a SQLite database so
// post-production tooling can query events by time range or tag.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	coreerrors "github.com/freshell/timecode/core/errors"
	schematimeline "github.com/freshell/timecode/core/schema/v1/timeline"
	"github.com/freshell/timecode/core/timeline"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS events (
    session_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    ts_utc TEXT NOT NULL,
    t_ms INTEGER NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('point', 'begin', 'end')),
    event TEXT NOT NULL,
    description TEXT NOT NULL,
    event_id TEXT,
    meta TEXT,
    gap_since_prev_note_ms INTEGER,
    duration_ms INTEGER,
    start_seq INTEGER,
    start_t_ms INTEGER,
    PRIMARY KEY (session_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_events_event ON events(event);
CREATE INDEX IF NOT EXISTS idx_events_t_ms ON events(t_ms);
`

// Result summarizes a completed export.
type Result struct {
	Database  string `json:"database"`
	SessionID string `json:"session_id"`
	Events    int    `json:"events"`
}

// ToSQLite validates the timeline and writes every record into dbPath. A
// timeline that fails validation is refused outright; post-production
// queries must never see an uncertified session.
func ToSQLite(ctx context.Context, timelinePath, dbPath string) (Result, error) {
	summary, err := timeline.Validate(timelinePath)
	if err != nil {
		return Result{}, err
	}
	records, err := timeline.ReadRecords(timelinePath)
	if err != nil {
		return Result{}, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return Result{}, coreerrors.Wrap(fmt.Errorf("open database: %w", err), coreerrors.CategoryIOFailure, "", "")
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return Result{}, coreerrors.Wrap(fmt.Errorf("create schema: %w", err), coreerrors.CategoryIOFailure, "", "")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, coreerrors.Wrap(fmt.Errorf("begin transaction: %w", err), coreerrors.CategoryIOFailure, "", "")
	}
	defer func() { _ = tx.Rollback() }()

	insert := `
		INSERT OR REPLACE INTO events (
			session_id, seq, ts_utc, t_ms, kind, event, description,
			event_id, meta, gap_since_prev_note_ms, duration_ms, start_seq, start_t_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, record := range records {
		meta, err := encodeMeta(record)
		if err != nil {
			return Result{}, err
		}
		if _, err := tx.ExecContext(ctx, insert,
			record.SessionID,
			record.Seq,
			record.TSUTC,
			record.TMS,
			record.Kind,
			record.Event,
			record.Desc,
			nullableString(record.ID),
			meta,
			record.GapSincePrevNoteMS,
			record.DurationMS,
			record.StartSeq,
			record.StartTMS,
		); err != nil {
			return Result{}, coreerrors.Wrap(fmt.Errorf("insert seq %d: %w", record.Seq, err), coreerrors.CategoryIOFailure, "", "")
		}
	}

	if err := tx.Commit(); err != nil {
		return Result{}, coreerrors.Wrap(fmt.Errorf("commit export: %w", err), coreerrors.CategoryIOFailure, "", "")
	}
	return Result{
		Database:  dbPath,
		SessionID: summary.SessionID,
		Events:    len(records),
	}, nil
}

func encodeMeta(record schematimeline.Record) (any, error) {
	if len(record.Meta) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(record.Meta)
	if err != nil {
		return nil, coreerrors.Wrap(fmt.Errorf("encode meta for seq %d: %w", record.Seq, err), coreerrors.CategoryInternalFailure, "", "")
	}
	return string(encoded), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
