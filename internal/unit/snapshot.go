package unit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/mount"
)

// Snapshot is the serializable state of a unit. Mount links are indices
// into Mounts.
type Snapshot struct {
	ID                     uuid.UUID      `json:"id"`
	Name                   string         `json:"name"`
	ShutDown               bool           `json:"shutDown,omitempty"`
	CrewActive             bool           `json:"crewActive"`
	DamagedSpecialHeatSink bool           `json:"damagedSpecialHeatSink,omitempty"`
	Options                game.Options   `json:"options"`
	Mounts                 []mount.Record `json:"mounts"`
	SavedAt                time.Time      `json:"savedAt"`
}

// TypeResolver resolves recorded type names. *equipment.Catalog satisfies it.
type TypeResolver interface {
	Get(name string) (*equipment.Type, error)
}

// Snapshot captures the unit. The swarm attacker is a reference to another
// unit and is not recorded.
func (u *Unit) Snapshot() Snapshot {
	s := Snapshot{
		ID:                     u.id,
		Name:                   u.name,
		ShutDown:               u.shutDown,
		CrewActive:             u.crewActive,
		DamagedSpecialHeatSink: u.damagedSpecialHeatSink,
		Options:                u.opts,
		Mounts:                 make([]mount.Record, 0, u.mounts.Len()),
		SavedAt:                time.Now().UTC(),
	}
	for _, m := range u.mounts.All() {
		s.Mounts = append(s.Mounts, m.Record())
	}
	return s
}

// Restore rebuilds a unit from a snapshot. Mounts whose type no longer
// resolves are kept unresolved, logged, and reported in the returned error
// (wrapping equipment.ErrUnknownType); the unit is returned either way.
func Restore(s Snapshot, types TypeResolver, log zerolog.Logger) (*Unit, error) {
	u := newUnit(s.ID, s.Name, s.Options, log)
	u.shutDown = s.ShutDown
	u.crewActive = s.CrewActive
	u.damagedSpecialHeatSink = s.DamagedSpecialHeatSink

	var errs []error
	for i, rec := range s.Mounts {
		t, err := types.Get(rec.TypeName)
		if err != nil {
			u.log.Error().Err(err).Int("mount", i).Str("type", rec.TypeName).Msg("restoring unresolved mount")
			errs = append(errs, fmt.Errorf("mount %d: %w", i, err))
		}
		u.mounts.Add(mount.FromRecord(rec, t))
	}
	for i, rec := range s.Mounts {
		if !u.mounts.RestoreLinks(mount.ID(i), rec.Linked, rec.LinkedBy, rec.CrossLinkedBy) {
			u.log.Warn().Int("mount", i).Msg("dropping out-of-range link")
			errs = append(errs, fmt.Errorf("mount %d: link out of range", i))
		}
	}
	return u, errors.Join(errs...)
}
