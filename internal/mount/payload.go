package mount

import (
	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/modes"
)

// Payload carries the state only one kind of mount needs. The concrete type
// is fixed at construction from the equipment kind.
type Payload interface {
	Kind() equipment.Kind
	clone() Payload
}

// CalledShot is the per-round aiming declaration of a weapon.
type CalledShot int

const (
	CalledNone CalledShot = iota
	CalledHigh
	CalledLow
	CalledLeft
	CalledRight
)

// WeaponState is the weapon-specific payload.
type WeaponState struct {
	CalledShot CalledShot
	// AMSUsed is set once an anti-missile system engages this round.
	AMSUsed bool
}

func (*WeaponState) Kind() equipment.Kind { return equipment.KindWeapon }
func (w *WeaponState) clone() Payload     { c := *w; return &c }

// AmmoState is the ammunition-specific payload.
type AmmoState struct {
	HotLoaded   bool
	PendingDump bool
	Dumping     bool
}

func (*AmmoState) Kind() equipment.Kind { return equipment.KindAmmo }
func (a *AmmoState) clone() Payload     { c := *a; return &c }

// MiscState tags miscellaneous equipment; it has no state of its own.
type MiscState struct{}

func (*MiscState) Kind() equipment.Kind { return equipment.KindMisc }
func (*MiscState) clone() Payload       { return &MiscState{} }

// BombState tags external ordnance.
type BombState struct{}

func (*BombState) Kind() equipment.Kind { return equipment.KindBomb }
func (*BombState) clone() Payload       { return &BombState{} }

func newPayload(k equipment.Kind) Payload {
	switch k {
	case equipment.KindWeapon:
		return &WeaponState{}
	case equipment.KindAmmo:
		return &AmmoState{}
	case equipment.KindBomb:
		return &BombState{}
	default:
		return &MiscState{}
	}
}

// Payload returns the kind-specific state, nil for unresolved mounts.
func (m *Mount) Payload() Payload { return m.payload }

// Weapon returns the weapon payload or nil.
func (m *Mount) Weapon() *WeaponState {
	w, _ := m.payload.(*WeaponState)
	return w
}

// Ammo returns the ammunition payload or nil.
func (m *Mount) Ammo() *AmmoState {
	a, _ := m.payload.(*AmmoState)
	return a
}

// SetCalledShot declares a called shot for this round. Non-weapons ignore it.
func (m *Mount) SetCalledShot(c CalledShot) bool {
	w := m.Weapon()
	if w == nil {
		return false
	}
	w.CalledShot = c
	return true
}

// SetAMSUsed marks an AMS as having engaged this round. Only weapons whose
// type carries FlagAMS accept it.
func (m *Mount) SetAMSUsed(v bool) bool {
	w := m.Weapon()
	if w == nil || !m.typ.HasFlag(equipment.FlagAMS) {
		return false
	}
	w.AMSUsed = v
	return true
}

// SetHotLoad toggles hot-loading on a bin whose type allows it.
func (m *Mount) SetHotLoad(v bool) bool {
	a := m.Ammo()
	if a == nil || !m.typ.HasFlag(equipment.FlagHotLoadable) {
		return false
	}
	a.HotLoaded = v
	return true
}

// SetPendingDump schedules the bin to start dumping at the next round.
func (m *Mount) SetPendingDump(v bool) bool {
	a := m.Ammo()
	if a == nil {
		return false
	}
	a.PendingDump = v
	return true
}

func (m *Mount) IsPendingDump() bool {
	a := m.Ammo()
	return a != nil && a.PendingDump
}

func (m *Mount) IsDumping() bool {
	a := m.Ammo()
	return a != nil && a.Dumping
}

func (m *Mount) ammoHotLoaded() bool {
	a := m.Ammo()
	return a != nil && (a.HotLoaded || m.CurMode().Is(modes.HotLoad))
}
