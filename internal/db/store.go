package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JustinWhittecar/mekmount/internal/unit"
)

// Store keeps snapshots in Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// Connect opens a pool for dsn and makes sure the schema exists.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	s := NewStore(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() { s.Pool.Close() }

var pgSchema = []string{
	`CREATE TABLE IF NOT EXISTS units (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		shut_down BOOLEAN NOT NULL DEFAULT FALSE,
		crew_active BOOLEAN NOT NULL DEFAULT TRUE,
		damaged_special_heat_sink BOOLEAN NOT NULL DEFAULT FALSE,
		options JSONB NOT NULL DEFAULT '{}',
		saved_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS unit_mounts (
		unit_id UUID NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		type_name TEXT NOT NULL,
		location INTEGER NOT NULL,
		linked INTEGER NOT NULL DEFAULT -1,
		linked_by INTEGER NOT NULL DEFAULT -1,
		cross_linked_by INTEGER NOT NULL DEFAULT -1,
		state JSONB NOT NULL,
		PRIMARY KEY (unit_id, idx)
	)`,
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, ddl := range pgSchema {
		if _, err := s.Pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) upsertUnit(ctx context.Context, tx pgx.Tx, snap unit.Snapshot) error {
	opts, err := encodeOptions(snap.Options)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO units (id, name, shut_down, crew_active, damaged_special_heat_sink, options, saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, shut_down = EXCLUDED.shut_down, crew_active = EXCLUDED.crew_active,
		   damaged_special_heat_sink = EXCLUDED.damaged_special_heat_sink,
		   options = EXCLUDED.options, saved_at = EXCLUDED.saved_at`,
		snap.ID.String(), snap.Name, snap.ShutDown, snap.CrewActive, snap.DamagedSpecialHeatSink, opts, snap.SavedAt.UTC(),
	)
	return err
}

func (s *Store) insertMounts(ctx context.Context, tx pgx.Tx, snap unit.Snapshot) error {
	rows, err := mountRows(snap)
	if err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(
			`INSERT INTO unit_mounts (unit_id, idx, type_name, location, linked, linked_by, cross_linked_by, state)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			snap.ID.String(), r.Idx, r.TypeName, r.Location, r.Linked, r.LinkedBy, r.CrossLinkedBy, r.State,
		)
	}
	return tx.SendBatch(ctx, batch).Close()
}

// SaveUnit replaces any earlier snapshot of the same unit in one transaction.
func (s *Store) SaveUnit(ctx context.Context, snap unit.Snapshot) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.upsertUnit(ctx, tx, snap); err != nil {
		return fmt.Errorf("upsert unit %q: %w", snap.Name, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM unit_mounts WHERE unit_id = $1`, snap.ID.String()); err != nil {
		return fmt.Errorf("clear mounts of %q: %w", snap.Name, err)
	}
	if err := s.insertMounts(ctx, tx, snap); err != nil {
		return fmt.Errorf("insert mounts of %q: %w", snap.Name, err)
	}

	return tx.Commit(ctx)
}

func (s *Store) LoadUnit(ctx context.Context, id uuid.UUID) (unit.Snapshot, error) {
	snap := unit.Snapshot{ID: id}
	var opts []byte
	err := s.Pool.QueryRow(ctx,
		`SELECT name, shut_down, crew_active, damaged_special_heat_sink, options, saved_at
		 FROM units WHERE id = $1`, id.String(),
	).Scan(&snap.Name, &snap.ShutDown, &snap.CrewActive, &snap.DamagedSpecialHeatSink, &opts, &snap.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return snap, fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return snap, fmt.Errorf("load unit %s: %w", id, err)
	}
	if snap.Options, err = decodeOptions(opts); err != nil {
		return snap, err
	}

	rows, err := s.Pool.Query(ctx,
		`SELECT idx, type_name, location, linked, linked_by, cross_linked_by, state
		 FROM unit_mounts WHERE unit_id = $1 ORDER BY idx`, id.String())
	if err != nil {
		return snap, fmt.Errorf("load mounts of %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r mountRow
		if err := rows.Scan(&r.Idx, &r.TypeName, &r.Location, &r.Linked, &r.LinkedBy, &r.CrossLinkedBy, &r.State); err != nil {
			return snap, fmt.Errorf("scan mount: %w", err)
		}
		rec, err := r.record()
		if err != nil {
			return snap, err
		}
		snap.Mounts = append(snap.Mounts, rec)
	}
	return snap, rows.Err()
}

func (s *Store) ListUnits(ctx context.Context) ([]UnitSummary, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT u.id::text, u.name, u.saved_at, COUNT(m.idx)
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
			sum   UnitSummary
			rawID string
		)
		if err := rows.Scan(&rawID, &sum.Name, &sum.SavedAt, &sum.Mounts); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		if sum.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("unit id %q: %w", rawID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM units WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	return nil
}
