// Package unit hosts a combat unit's mounts: it applies the effects mount
// mutators hand back, keeps communications gear mode-locked together, and
// fans the round and phase hooks out over the equipment list in order.
package unit

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/mount"
)

type Unit struct {
	id     uuid.UUID
	name   string
	mounts *mount.List
	opts   game.Options

	shutDown   bool
	crewActive bool
	swarm      mount.Host

	damagedSpecialHeatSink bool

	log zerolog.Logger
}

// New creates an empty, crewed unit.
func New(name string, opts game.Options, log zerolog.Logger) *Unit {
	return newUnit(uuid.New(), name, opts, log)
}

func newUnit(id uuid.UUID, name string, opts game.Options, log zerolog.Logger) *Unit {
	return &Unit{
		id:         id,
		name:       name,
		mounts:     mount.NewList(),
		opts:       opts,
		crewActive: true,
		log:        log.With().Str("unit", name).Str("unit_id", id.String()).Logger(),
	}
}

func (u *Unit) ID() uuid.UUID             { return u.id }
func (u *Unit) Name() string              { return u.name }
func (u *Unit) Options() game.Options     { return u.opts }
func (u *Unit) SetOptions(o game.Options) { u.opts = o }

// ─── Host status ────────────────────────────────────────────────────────────

func (u *Unit) IsShutDown() bool          { return u.shutDown }
func (u *Unit) SetShutDown(v bool)        { u.shutDown = v }
func (u *Unit) CrewActive() bool          { return u.crewActive }
func (u *Unit) SetCrewActive(v bool)      { u.crewActive = v }
func (u *Unit) SwarmAttacker() mount.Host { return u.swarm }

// SetSwarmAttacker records the unit swarming this one; nil clears it.
func (u *Unit) SetSwarmAttacker(h mount.Host) { u.swarm = h }

// HasDamagedSpecialHeatSink reports whether a radical heat sink system was hit
// or destroyed.
func (u *Unit) HasDamagedSpecialHeatSink() bool { return u.damagedSpecialHeatSink }

// ─── Equipment ──────────────────────────────────────────────────────────────

// Add mounts equipment of type t at location.
func (u *Unit) Add(t *equipment.Type, location int) *mount.Mount {
	m := mount.New(t, location)
	u.mounts.Add(m)
	return m
}

// AddMount appends an already built mount, resolved or not.
func (u *Unit) AddMount(m *mount.Mount) mount.ID { return u.mounts.Add(m) }

func (u *Unit) Mount(id mount.ID) *mount.Mount { return u.mounts.Mount(id) }

// Mounts returns the equipment in stored order.
func (u *Unit) Mounts() []*mount.Mount { return u.mounts.All() }

// List exposes the arena for link traversal.
func (u *Unit) List() *mount.List { return u.mounts }

func (u *Unit) Len() int { return u.mounts.Len() }

func (u *Unit) SetLinked(a, b mount.ID) bool        { return u.mounts.SetLinked(a, b) }
func (u *Unit) SetLinkedBy(t, l mount.ID) bool      { return u.mounts.SetLinkedBy(t, l) }
func (u *Unit) SetCrossLinkedBy(t, l mount.ID) bool { return u.mounts.SetCrossLinkedBy(t, l) }

// ─── Damage ─────────────────────────────────────────────────────────────────

func (u *Unit) SetHit(id mount.ID, v bool) bool {
	m := u.mounts.Mount(id)
	if m == nil {
		return false
	}
	u.apply(m, m.SetHit(v))
	return true
}

func (u *Unit) SetDestroyed(id mount.ID, v bool) bool {
	m := u.mounts.Mount(id)
	if m == nil {
		return false
	}
	u.apply(m, m.SetDestroyed(v))
	return true
}

func (u *Unit) apply(m *mount.Mount, e mount.Effect) {
	switch e {
	case mount.EffectSpecialDamage:
		if !u.damagedSpecialHeatSink {
			u.log.Info().Int("mount", int(m.ID())).Str("equipment", m.Name()).Msg("special heat sink damaged")
		}
		u.damagedSpecialHeatSink = true
	}
}

// ─── Modes ──────────────────────────────────────────────────────────────────

// SetMode sets a mount's mode. On communications gear the same mode name is
// applied to every other communications mount that offers it, each following its own
// instant or next-round rule.
func (u *Unit) SetMode(id mount.ID, index int) bool {
	m := u.mounts.Mount(id)
	if m == nil || !m.SetMode(index) {
		return false
	}
	u.syncGroup(m, index)
	return true
}

// SetModeByName is SetMode addressed by mode name.
func (u *Unit) SetModeByName(id mount.ID, name string) bool {
	m := u.mounts.Mount(id)
	if m == nil || !m.HasModes() {
		return false
	}
	return u.SetMode(id, m.Type().ModeIndex(name))
}

// SwitchMode cycles a mount's mode and keeps communications gear in step.
// It returns the new index or -1.
func (u *Unit) SwitchMode(id mount.ID, forward bool) int {
	m := u.mounts.Mount(id)
	if m == nil {
		return -1
	}
	idx := m.SwitchMode(forward)
	if idx >= 0 {
		u.syncGroup(m, idx)
	}
	return idx
}

func (u *Unit) syncGroup(src *mount.Mount, index int) {
	if !src.Type().HasFlag(equipment.FlagCommunications) {
		return
	}
	name := src.Type().Mode(index).Name()
	for _, m := range u.mounts.All() {
		if m == src || !m.IsResolved() || !m.Type().HasFlag(equipment.FlagCommunications) {
			continue
		}
		if !m.SetModeByName(name) {
			u.log.Debug().Int("mount", int(m.ID())).Str("mode", name).Msg("comms mode not available")
			continue
		}
		u.log.Debug().Int("mount", int(m.ID())).Str("mode", name).Msg("comms mode synced")
	}
}

// ─── Lifecycle ──────────────────────────────────────────────────────────────

// OnRoundStart runs NewRound on every mount in stored order.
func (u *Unit) OnRoundStart() game.RoundReport {
	var rep game.RoundReport
	for _, m := range u.mounts.All() {
		res := m.NewRound()
		if res.ModeCommitted {
			rep.ModesCommitted++
		}
		if res.Dumped {
			rep.BinsDumped++
		}
	}
	return rep
}

// OnPhaseStart runs NewPhase on every mount in stored order.
func (u *Unit) OnPhaseStart(phase game.Phase) game.PhaseReport {
	var rep game.PhaseReport
	for _, m := range u.mounts.All() {
		res := m.NewPhase(phase, u.opts)
		if res.JamRevealed {
			rep.JamsRevealed++
			u.log.Debug().Int("mount", int(m.ID())).Str("equipment", m.Name()).Stringer("phase", phase).Msg("jam revealed")
		}
		if res.ModeReset {
			rep.ModesReset++
		}
	}
	return rep
}

// ─── Queries ────────────────────────────────────────────────────────────────

// CanFire asks the mount with this unit as its host.
func (u *Unit) CanFire(id mount.ID, considerSwarm, isStrafing, evenIfAlreadyFired bool) bool {
	m := u.mounts.Mount(id)
	return m != nil && m.CanFire(u, considerSwarm, isStrafing, evenIfAlreadyFired)
}

// WeaponHeat is the heat of every weapon fired this round.
func (u *Unit) WeaponHeat() int {
	total := 0
	for _, m := range u.mounts.All() {
		if k, ok := m.Kind(); ok && k == equipment.KindWeapon && m.UsedThisRound() {
			total += m.CurrentHeat(u.mounts)
		}
	}
	return total
}

// Clone copies the unit and its equipment. Links keep their IDs, which
// resolve inside the copy.
func (u *Unit) Clone() *Unit {
	c := *u
	c.mounts = u.mounts.Clone()
	return &c
}
