package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
	"SpaceColony/modules/kit/errx"
)

// SQLiteJournal 事件流水落本地 SQLite，按 sim_id + at_ms 建索引。
type SQLiteJournal struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// 单写者，避免 SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS colony_event (
			seq       INTEGER PRIMARY KEY AUTOINCREMENT,
			id        TEXT NOT NULL UNIQUE,
			sim_id    TEXT NOT NULL,
			at_ms     INTEGER NOT NULL,
			kind      TEXT NOT NULL,
			ship_id   INTEGER,
			raider_id INTEGER,
			location  TEXT,
			detail    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_colony_event_sim_at ON colony_event(sim_id, at_ms)`,
	}
	for _, s := range stmts {
		if _, err := j.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Append 一批事件一个事务，重复 id 忽略。
func (j *SQLiteJournal) Append(ctx context.Context, id entity.SimID, events []entity.Event) error {
	if len(events) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO colony_event
		(id, sim_id, at_ms, kind, ship_id, raider_id, location, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return errx.ErrUnavailable.WithCause(err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.ID, string(id), e.AtMs, string(e.Kind),
			int64(e.ShipID), int64(e.RaiderID), e.Location.Key(), e.Detail); err != nil {
			_ = tx.Rollback()
			return errx.ErrUnavailable.WithCause(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}

// Recent 最近 limit 条，按发生顺序返回（旧 -> 新）。
func (j *SQLiteJournal) Recent(ctx context.Context, id entity.SimID, limit int) ([]entity.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, `SELECT id, at_ms, kind, ship_id, raider_id, location, detail
		FROM colony_event WHERE sim_id = ? ORDER BY at_ms DESC, seq DESC LIMIT ?`, string(id), limit)
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	defer rows.Close()

	var out []entity.Event
	for rows.Next() {
		var (
			e        entity.Event
			kind     string
			shipID   int64
			raiderID int64
			loc      sql.NullString
			detail   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.AtMs, &kind, &shipID, &raiderID, &loc, &detail); err != nil {
			return nil, errx.ErrUnavailable.WithCause(err)
		}
		e.Kind = entity.EventKind(kind)
		e.ShipID = domain.ShipID(shipID)
		e.RaiderID = domain.RaiderID(raiderID)
		e.Detail = detail.String
		if e.Location, err = domain.ParseLocationKey(loc.String); err != nil {
			return nil, errx.ErrInternal.WithCause(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
