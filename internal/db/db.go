// Package db persists unit snapshots in SQLite (modernc) or Postgres (pgx).
// Both stores use the same two tables: units, and unit_mounts keyed by
// (unit_id, idx) where idx is the mount's position and link target.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/mount"
	"github.com/JustinWhittecar/mekmount/internal/unit"
)

// ErrNotFound is returned when no snapshot exists for a unit ID.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore saves and loads unit snapshots.
type SnapshotStore interface {
	SaveUnit(ctx context.Context, s unit.Snapshot) error
	LoadUnit(ctx context.Context, id uuid.UUID) (unit.Snapshot, error)
	ListUnits(ctx context.Context) ([]UnitSummary, error)
	DeleteUnit(ctx context.Context, id uuid.UUID) error
}

var (
	_ SnapshotStore = (*SQLiteStore)(nil)
	_ SnapshotStore = (*Store)(nil)
)

// UnitSummary is one row of ListUnits.
type UnitSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Mounts  int       `json:"mounts"`
	SavedAt time.Time `json:"savedAt"`
}

// mountRow is the column form of one mount. The full record is kept as JSON
// in state; the link columns are what LoadUnit trusts.
type mountRow struct {
	Idx           int
	TypeName      string
	Location      int
	Linked        int
	LinkedBy      int
	CrossLinkedBy int
	State         []byte
}

func mountRows(s unit.Snapshot) ([]mountRow, error) {
	rows := make([]mountRow, 0, len(s.Mounts))
	for i, rec := range s.Mounts {
		state, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode mount %d: %w", i, err)
		}
		rows = append(rows, mountRow{
			Idx:           i,
			TypeName:      rec.TypeName,
			Location:      rec.Location,
			Linked:        rec.Linked,
			LinkedBy:      rec.LinkedBy,
			CrossLinkedBy: rec.CrossLinkedBy,
			State:         state,
		})
	}
	return rows, nil
}

func (r mountRow) record() (mount.Record, error) {
	var rec mount.Record
	if err := json.Unmarshal(r.State, &rec); err != nil {
		return rec, fmt.Errorf("decode mount %d: %w", r.Idx, err)
	}
	rec.TypeName = r.TypeName
	rec.Location = r.Location
	rec.Linked = r.Linked
	rec.LinkedBy = r.LinkedBy
	rec.CrossLinkedBy = r.CrossLinkedBy
	return rec, nil
}

func encodeOptions(o game.Options) ([]byte, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return b, nil
}

func decodeOptions(b []byte) (game.Options, error) {
	var o game.Options
	if len(b) == 0 {
		return o, nil
	}
	if err := json.Unmarshal(b, &o); err != nil {
		return o, fmt.Errorf("decode options: %w", err)
	}
	return o, nil
}
