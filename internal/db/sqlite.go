package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/JustinWhittecar/mekmount/internal/unit"
)

func ConnectSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		shut_down INTEGER NOT NULL DEFAULT 0,
		crew_active INTEGER NOT NULL DEFAULT 1,
		damaged_special_heat_sink INTEGER NOT NULL DEFAULT 0,
		options TEXT NOT NULL DEFAULT '{}',
		saved_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS unit_mounts (
		unit_id TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		type_name TEXT NOT NULL,
		location INTEGER NOT NULL,
		linked INTEGER NOT NULL DEFAULT -1,
		linked_by INTEGER NOT NULL DEFAULT -1,
		cross_linked_by INTEGER NOT NULL DEFAULT -1,
		state TEXT NOT NULL,
		PRIMARY KEY (unit_id, idx)
	)`,
}

// SQLiteStore keeps snapshots in a local SQLite file.
type SQLiteStore struct {
	DB *sql.DB
}

// OpenSQLiteStore connects to path and creates the tables if needed.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := ConnectSQLite(path)
	if err != nil {
		return nil, err
	}
	for _, ddl := range sqliteSchema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Close() error { return s.DB.Close() }

// SaveUnit replaces any earlier snapshot of the same unit.
func (s *SQLiteStore) SaveUnit(ctx context.Context, snap unit.Snapshot) error {
	opts, err := encodeOptions(snap.Options)
	if err != nil {
		return err
	}
	rows, err := mountRows(snap)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := snap.ID.String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO units (id, name, shut_down, crew_active, damaged_special_heat_sink, options, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name = excluded.name, shut_down = excluded.shut_down, crew_active = excluded.crew_active,
		   damaged_special_heat_sink = excluded.damaged_special_heat_sink,
		   options = excluded.options, saved_at = excluded.saved_at`,
		id, snap.Name, snap.ShutDown, snap.CrewActive, snap.DamagedSpecialHeatSink, string(opts), snap.SavedAt.UTC(),
	); err != nil {
		return fmt.Errorf("upsert unit %q: %w", snap.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM unit_mounts WHERE unit_id = ?`, id); err != nil {
		return fmt.Errorf("clear mounts of %q: %w", snap.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO unit_mounts (unit_id, idx, type_name, location, linked, linked_by, cross_linked_by, state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare mount insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, id, r.Idx, r.TypeName, r.Location, r.Linked, r.LinkedBy, r.CrossLinkedBy, string(r.State)); err != nil {
			return fmt.Errorf("insert mount %d of %q: %w", r.Idx, snap.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadUnit(ctx context.Context, id uuid.UUID) (unit.Snapshot, error) {
	snap := unit.Snapshot{ID: id}
	var opts string
	err := s.DB.QueryRowContext(ctx,
		`SELECT name, shut_down, crew_active, damaged_special_heat_sink, options, saved_at
		 FROM units WHERE id = ?`, id.String(),
	).Scan(&snap.Name, &snap.ShutDown, &snap.CrewActive, &snap.DamagedSpecialHeatSink, &opts, &snap.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return snap, fmt.Errorf("load unit %s: %w", id, err)
	}
	if snap.Options, err = decodeOptions([]byte(opts)); err != nil {
		return snap, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT idx, type_name, location, linked, linked_by, cross_linked_by, state
		 FROM unit_mounts WHERE unit_id = ? ORDER BY idx`, id.String())
	if err != nil {
		return snap, fmt.Errorf("load mounts of %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r mountRow
		var state string
		if err := rows.Scan(&r.Idx, &r.TypeName, &r.Location, &r.Linked, &r.LinkedBy, &r.CrossLinkedBy, &state); err != nil {
			return snap, fmt.Errorf("scan mount: %w", err)
		}
		r.State = []byte(state)
		rec, err := r.record()
		if err != nil {
			return snap, err
		}
		snap.Mounts = append(snap.Mounts, rec)
	}
	return snap, rows.Err()
}

func (s *SQLiteStore) ListUnits(ctx context.Context) ([]UnitSummary, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT u.id, u.name, u.saved_at, COUNT(m.idx)
		 FROM units u LEFT JOIN unit_mounts m ON m.unit_id = u.id
		 GROUP BY u.id, u.name, u.saved_at
		 ORDER BY u.name, u.id`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	out := []UnitSummary{}
	for rows.Next() {
		var (
			sum     UnitSummary
			rawID   string
			savedAt time.Time
		)
		if err := rows.Scan(&rawID, &sum.Name, &savedAt, &sum.Mounts); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		if sum.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("unit id %q: %w", rawID, err)
		}
		sum.SavedAt = savedAt
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	return nil
}
