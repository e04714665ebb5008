// Package history keeps a SQLite ledger of every draw made in a save slot.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one ledger row. Session names the game the draw belongs to and
// Seq is the player's draw count after it, so a loaded save can drop the
// draws it never saw.
type Record struct {
	ID        int64
	Session   string
	Seq       int
	Room      int
	Machine   string
	ItemID    string
	ItemName  string
	Rarity    string
	Cost      int
	PityAfter int
	Forced    bool
	Lost      bool
	DrawnAt   time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS draws (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	room       INTEGER NOT NULL,
	machine    TEXT NOT NULL,
	item_id    TEXT NOT NULL,
	item_name  TEXT NOT NULL,
	rarity     TEXT NOT NULL,
	cost       INTEGER NOT NULL,
	pity_after INTEGER NOT NULL,
	forced     INTEGER NOT NULL,
	lost       INTEGER NOT NULL,
	drawn_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS draws_drawn_at ON draws (drawn_at);
CREATE INDEX IF NOT EXISTS draws_session_seq ON draws (session, seq);
`

// Store persists draw records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordDraw appends one draw.
func (s *Store) RecordDraw(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	drawnAt := rec.DrawnAt
	if drawnAt.IsZero() {
		drawnAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO draws (session, seq, room, machine, item_id, item_name, rarity, cost, pity_after, forced, lost, drawn_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Session, rec.Seq, rec.Room, rec.Machine, rec.ItemID, rec.ItemName, rec.Rarity,
		rec.Cost, rec.PityAfter, rec.Forced, rec.Lost, toMillis(drawnAt),
	)
	if err != nil {
		return fmt.Errorf("insert draw: %w", err)
	}
	return nil
}

// Recent returns up to limit draws of one session, newest first.
func (s *Store) Recent(ctx context.Context, session string, limit int) ([]Record, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, session, seq, room, machine, item_id, item_name, rarity, cost, pity_after, forced, lost, drawn_at
		 FROM draws WHERE session = ? ORDER BY id DESC LIMIT ?`, session, limit)
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var drawnAt int64
		if err := rows.Scan(&rec.ID, &rec.Session, &rec.Seq, &rec.Room, &rec.Machine, &rec.ItemID, &rec.ItemName,
			&rec.Rarity, &rec.Cost, &rec.PityAfter, &rec.Forced, &rec.Lost, &drawnAt); err != nil {
			return nil, fmt.Errorf("scan draw: %w", err)
		}
		rec.DrawnAt = fromMillis(drawnAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draws: %w", err)
	}
	return out, nil
}

// Truncate deletes the draws of a session numbered after keep. Loading a
// save calls it with the saved draw count.
func (s *Store) Truncate(ctx context.Context, session string, keep int) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM draws WHERE session = ? AND seq > ?`, session, keep); err != nil {
		return fmt.Errorf("truncate draws: %w", err)
	}
	return nil
}
