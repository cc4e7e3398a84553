// Package mount holds the runtime record for one piece of equipment attached
// to a unit, the linkage arena connecting dependent mounts, and the queries
// combat resolution asks of them every action.
package mount

import (
	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
)

// ID is a mount's stable index inside its owning List.
type ID int

// NoID marks an absent link.
const NoID ID = -1

// LocNone marks an absent location.
const LocNone = -1

const (
	minWeapons = 1
	maxWeapons = 40
)

// Effect is an outcome a mutator hands back for the host to apply.
type Effect int

const (
	EffectNone Effect = iota
	// EffectSpecialDamage: the host's damaged-special-heat-sink flag must be raised.
	EffectSpecialDamage
)

// Turret identifies the kind of turret a mount sits in.
type Turret int

const (
	TurretNone Turret = iota
	TurretMech
	TurretSponson
	TurretPintle
)

// Mount is one piece of equipment on a unit.
type Mount struct {
	id       ID
	typ      *equipment.Type
	typeName string

	destroyed       bool
	hit             bool
	missing         bool
	jammed          bool
	jammedThisPhase bool
	useless         bool
	fired           bool

	usedThisRound bool
	usedInPhase   game.Phase

	mode           int
	pendingMode    int
	modeSwitchable bool

	location          int
	secondaryLocation int
	rearMounted       bool
	size              float64

	shotsLeft     int
	originalShots int

	weaponGroup bool
	numWeapons  int
	oneShot     bool
	omniPod     bool
	armored     bool
	dwpMounted  bool
	apmMounted  bool
	turret      Turret
	facing      int

	linked        ID
	linkedBy      ID
	crossLinkedBy ID

	payload Payload
}

// New creates a mount of type t at location. Ammo starts with a full bin.
func New(t *equipment.Type, location int) *Mount {
	m := blank(t.Name, location)
	m.typ = t
	m.oneShot = t.HasFlag(equipment.FlagOneShot)
	m.payload = newPayload(t.Kind)
	if t.Kind == equipment.KindAmmo {
		m.shotsLeft = t.ShotsPerTon
		m.originalShots = t.ShotsPerTon
	}
	return m
}

// NewUnresolved creates a mount whose type name did not resolve. Such a mount
// is permanently inoperable.
func NewUnresolved(typeName string, location int) *Mount {
	return blank(typeName, location)
}

func blank(name string, location int) *Mount {
	return &Mount{
		id:                NoID,
		typeName:          name,
		pendingMode:       -1,
		modeSwitchable:    true,
		location:          location,
		secondaryLocation: LocNone,
		size:              1.0,
		numWeapons:        1,
		facing:            -1,
		linked:            NoID,
		linkedBy:          NoID,
		crossLinkedBy:     NoID,
	}
}

func (m *Mount) ID() ID { return m.id }

// Type returns the equipment type, nil when unresolved.
func (m *Mount) Type() *equipment.Type { return m.typ }

func (m *Mount) IsResolved() bool { return m.typ != nil }

func (m *Mount) Name() string { return m.typeName }

func (m *Mount) Kind() (equipment.Kind, bool) {
	if m.typ == nil {
		return 0, false
	}
	return m.typ.Kind, true
}

// ─── Operational flags ──────────────────────────────────────────────────────

func (m *Mount) IsDestroyed() bool { return m.destroyed }
func (m *Mount) IsHit() bool       { return m.hit }
func (m *Mount) IsMissing() bool   { return m.missing }
func (m *Mount) IsJammed() bool    { return m.jammed }
func (m *Mount) IsUseless() bool   { return m.useless }
func (m *Mount) IsFired() bool     { return m.fired }

// IsJamPending reports a jam that becomes visible at the next phase boundary.
func (m *Mount) IsJamPending() bool { return m.jammedThisPhase }

// SetHit marks the mount as hit by a critical.
func (m *Mount) SetHit(v bool) Effect {
	m.hit = v
	return m.specialDamage(v)
}

func (m *Mount) SetDestroyed(v bool) Effect {
	m.destroyed = v
	return m.specialDamage(v)
}

func (m *Mount) specialDamage(raised bool) Effect {
	if raised && m.typ != nil && m.typ.HasFlag(equipment.FlagRadicalHeatSink) {
		return EffectSpecialDamage
	}
	return EffectNone
}

func (m *Mount) SetMissing(v bool) { m.missing = v }

// SetJammed records the jam for this phase; IsJammed follows at the next
// phase boundary.
func (m *Mount) SetJammed(v bool) { m.jammedThisPhase = v }

// SetUseless marks the mount as breached or otherwise useless.
func (m *Mount) SetUseless(v bool) { m.useless = v }

func (m *Mount) SetFired(v bool) { m.fired = v }

func (m *Mount) UsedThisRound() bool { return m.usedThisRound }

// UsedInPhase is the phase of the last SetUsedThisRound(true).
func (m *Mount) UsedInPhase() game.Phase { return m.usedInPhase }

func (m *Mount) SetUsedThisRound(used bool, phase game.Phase) {
	m.usedThisRound = used
	if used {
		m.usedInPhase = phase
	}
}

// ─── Placement ──────────────────────────────────────────────────────────────

func (m *Mount) Location() int          { return m.location }
func (m *Mount) SecondaryLocation() int { return m.secondaryLocation }

// IsSplit reports whether the mount spans two locations.
func (m *Mount) IsSplit() bool { return m.secondaryLocation != LocNone }

func (m *Mount) SetLocation(loc int) { m.location = loc }

// SetSecondaryLocation splits the mount across loc; LocNone unsplits it.
func (m *Mount) SetSecondaryLocation(loc int) {
	if loc < 0 {
		loc = LocNone
	}
	m.secondaryLocation = loc
}

func (m *Mount) IsRearMounted() bool      { return m.rearMounted }
func (m *Mount) SetRearMounted(v bool)    { m.rearMounted = v }
func (m *Mount) Turret() Turret           { return m.turret }
func (m *Mount) SetTurret(t Turret)       { m.turret = t }
func (m *Mount) Facing() int              { return m.facing }
func (m *Mount) SetFacing(f int)          { m.facing = f }
func (m *Mount) IsOmniPodMounted() bool   { return m.omniPod }
func (m *Mount) SetOmniPodMounted(v bool) { m.omniPod = v }
func (m *Mount) IsArmored() bool          { return m.armored }
func (m *Mount) SetArmored(v bool)        { m.armored = v }
func (m *Mount) IsDWPMounted() bool       { return m.dwpMounted }
func (m *Mount) SetDWPMounted(v bool)     { m.dwpMounted = v }
func (m *Mount) IsAPMMounted() bool       { return m.apmMounted }
func (m *Mount) SetAPMMounted(v bool)     { m.apmMounted = v }
func (m *Mount) IsOneShot() bool          { return m.oneShot }
func (m *Mount) SetOneShot(v bool)        { m.oneShot = v }

func (m *Mount) Size() float64 { return m.size }

// SetSize sets the size multiplier of variable-size equipment.
func (m *Mount) SetSize(s float64) {
	if s <= 0 {
		s = 1.0
	}
	m.size = s
}

func (m *Mount) IsWeaponGroup() bool   { return m.weaponGroup }
func (m *Mount) SetWeaponGroup(v bool) { m.weaponGroup = v }
func (m *Mount) NumWeapons() int       { return m.numWeapons }

// SetNumWeapons clamps n to [1, 40].
func (m *Mount) SetNumWeapons(n int) {
	m.numWeapons = max(minWeapons, min(maxWeapons, n))
}

// Tonnage is the mount's weight, including armored-component plating.
func (m *Mount) Tonnage() float64 {
	if m.typ == nil {
		return 0
	}
	t := m.typ.TonnageFor(m.size)
	if m.armored {
		t += 0.5 * float64(m.typ.SlotsFor(m.size))
	}
	return t
}

func (m *Mount) CriticalSlots() int {
	if m.typ == nil {
		return 0
	}
	return m.typ.SlotsFor(m.size)
}

// ─── Links ──────────────────────────────────────────────────────────────────

func (m *Mount) LinkedID() ID        { return m.linked }
func (m *Mount) LinkedByID() ID      { return m.linkedBy }
func (m *Mount) CrossLinkedByID() ID { return m.crossLinkedBy }
