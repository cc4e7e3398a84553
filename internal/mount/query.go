package mount

import (
	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/modes"
)

// chargedCapacitorHeat is the extra heat a PPC generates per charged capacitor.
const chargedCapacitorHeat = 5

func resolve(r Resolver, id ID) *Mount {
	if r == nil || id == NoID {
		return nil
	}
	return r.Mount(id)
}

func (m *Mount) hasFlag(f equipment.Flag) bool { return m.typ != nil && m.typ.HasFlag(f) }

func (m *Mount) isCapacitor() bool { return m.hasFlag(equipment.FlagPPCCapacitor) }

// isCharging reports a capacitor in Charge mode, committed or pending.
func (m *Mount) isCharging() bool {
	return m.CurMode().Is(modes.Charge) || m.PendingMode().Is(modes.Charge)
}

// HasChargedCapacitor counts the intact capacitors wired to this weapon that
// are charging. The primary capacitor sits on the back-link, or on the
// forward link when the weapon was the linking side; a second one sits on
// the cross link.
func (m *Mount) HasChargedCapacitor(r Resolver) int {
	first := resolve(r, m.linkedBy)
	if first == nil || !first.isCapacitor() {
		first = resolve(r, m.linked)
	}
	n := 0
	if first != nil && first.isCapacitor() && !first.destroyed && first.isCharging() {
		n++
	}
	second := resolve(r, m.crossLinkedBy)
	if second != nil && second != first && second.isCapacitor() && !second.destroyed && second.isCharging() {
		n++
	}
	return n
}

// CurrentHeat is the heat the mount generates this turn if used.
func (m *Mount) CurrentHeat(r Resolver) int {
	if m.typ == nil {
		return 0
	}
	switch m.typ.Kind {
	case equipment.KindWeapon:
		heat := m.typ.Heat
		if shots := m.CurrentShots(); shots > 1 {
			heat *= shots
		}
		if m.weaponGroup {
			heat *= m.numWeapons
		}
		heat += chargedCapacitorHeat * m.HasChargedCapacitor(r)
		if ins := resolve(r, m.linkedBy); ins != nil && ins.hasFlag(equipment.FlagLaserInsulator) && ins.IsOperable() {
			heat = max(1, heat-1)
		}
		return heat
	case equipment.KindMisc:
		if !m.IsOperable() || m.CurMode().Is(modes.Off) {
			return 0
		}
		return m.typ.Heat
	}
	return 0
}

// ammoDamagePerShot is the damage one round of ammo adds to an explosion.
func ammoDamagePerShot(t *equipment.Type) int {
	dps := t.DamagePerShot
	if t.HasMunition(equipment.MunitionDeadFire) {
		dps++
	}
	return dps
}

// ExplosionDamage is the damage dealt if a critical hit sets the mount off.
func (m *Mount) ExplosionDamage(r Resolver) int {
	if m.typ == nil {
		return 0
	}
	t := m.typ
	switch t.Kind {
	case equipment.KindAmmo:
		if !t.HasFlag(equipment.FlagExplosive) {
			return 0
		}
		return ammoDamagePerShot(t) * max(1, t.RackSize) * m.shotsLeft
	case equipment.KindWeapon:
		dmg := 0
		if t.HasFlag(equipment.FlagExplosive) {
			dmg = t.ExplosionDamage
		}
		loaded := m.oneShot && !m.fired
		if loaded || m.IsHotLoaded(r) {
			dps := 1
			if ammo := resolve(r, m.linked); ammo != nil && ammo.typ != nil && ammo.typ.Kind == equipment.KindAmmo {
				dps = ammoDamagePerShot(ammo.typ)
			}
			dmg += max(1, t.RackSize) * dps
		}
		return dmg
	case equipment.KindMisc:
		if !t.HasFlag(equipment.FlagExplosive) {
			return 0
		}
		if m.isCapacitor() && !m.isCharging() {
			return 0
		}
		return t.ExplosionDamage
	case equipment.KindBomb:
		if m.fired {
			return 0
		}
		return t.ExplosionDamage
	}
	return 0
}

// IsHotLoaded reports hot-loading on an ammo bin, or on the bin feeding a
// weapon.
func (m *Mount) IsHotLoaded(r Resolver) bool {
	if m.typ == nil {
		return false
	}
	switch m.typ.Kind {
	case equipment.KindAmmo:
		return m.ammoHotLoaded()
	case equipment.KindWeapon:
		ammo := resolve(r, m.linked)
		return ammo != nil && ammo.UsableShotsLeft() > 0 && ammo.ammoHotLoaded()
	}
	return false
}
