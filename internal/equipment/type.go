package equipment

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/JustinWhittecar/mekmount/internal/modes"
)

// ─── Kinds ──────────────────────────────────────────────────────────────────

type Kind int

const (
	KindMisc Kind = iota
	KindWeapon
	KindAmmo
	KindBomb
)

var kindNames = map[string]Kind{
	"misc":   KindMisc,
	"weapon": KindWeapon,
	"ammo":   KindAmmo,
	"bomb":   KindBomb,
}

func (k Kind) String() string {
	switch k {
	case KindMisc:
		return "misc"
	case KindWeapon:
		return "weapon"
	case KindAmmo:
		return "ammo"
	case KindBomb:
		return "bomb"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	if k, ok := kindNames[s]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// ─── Flags ──────────────────────────────────────────────────────────────────

type Flag uint

const (
	FlagEnergy Flag = iota
	FlagBallistic
	FlagMissile
	FlagPPC
	FlagPPCCapacitor
	FlagLaserInsulator
	FlagCommunications
	FlagShield
	FlagRadicalHeatSink
	FlagAMS
	FlagOneShot
	FlagExplosive
	FlagHotLoadable
	FlagDWP
	FlagAPM
)

var flagNames = map[string]Flag{
	"energy":            FlagEnergy,
	"ballistic":         FlagBallistic,
	"missile":           FlagMissile,
	"ppc":               FlagPPC,
	"ppc-capacitor":     FlagPPCCapacitor,
	"laser-insulator":   FlagLaserInsulator,
	"communications":    FlagCommunications,
	"shield":            FlagShield,
	"radical-heat-sink": FlagRadicalHeatSink,
	"ams":               FlagAMS,
	"one-shot":          FlagOneShot,
	"explosive":         FlagExplosive,
	"hot-loadable":      FlagHotLoadable,
	"dwp":               FlagDWP,
	"apm":               FlagAPM,
}

func ParseFlag(s string) (Flag, error) {
	if f, ok := flagNames[s]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown flag %q", s)
}

// ─── Munitions ──────────────────────────────────────────────────────────────

type Munition uint8

const (
	MunitionDeadFire Munition = 1 << iota
	MunitionInferno
	MunitionTandemCharge
)

var munitionNames = map[string]Munition{
	"dead-fire":     MunitionDeadFire,
	"inferno":       MunitionInferno,
	"tandem-charge": MunitionTandemCharge,
}

// Ammo families the engine dispatches on. Any other family string is legal
// and only matters for weapon/ammo matching.
const (
	AmmoACUltra            = "ac-ultra"
	AmmoACUltraThunderbolt = "ac-ultra-thb"
	AmmoACRotary           = "ac-rotary"
)

// ─── Type ───────────────────────────────────────────────────────────────────

// Type is the static rules data for one kind of equipment. Types are built by
// a Catalog and must not be modified afterwards; mounts share them freely.
type Type struct {
	Name              string
	InternalName      string
	Kind              Kind
	Heat              int
	Damage            int
	RackSize          int
	Tonnage           float64
	CriticalSlots     int
	VariableSize      bool
	AmmoType          string
	ShotsPerTon       int
	DamagePerShot     int
	ExplosionDamage   int
	InstantModeSwitch bool

	flags     bitset.BitSet
	munitions Munition
	modes     []*modes.Mode
	nextTurn  map[string]bool
	aliases   []string
}

func (t *Type) String() string { return t.Name }

func (t *Type) HasFlag(f Flag) bool { return t.flags.Test(uint(f)) }

func (t *Type) HasMunition(m Munition) bool { return t.munitions&m != 0 }

func (t *Type) HasModes() bool { return len(t.modes) > 0 }

func (t *Type) ModeCount() int { return len(t.modes) }

// Mode returns the i-th mode or modes.None when i is out of range.
func (t *Type) Mode(i int) *modes.Mode {
	if i < 0 || i >= len(t.modes) {
		return modes.None
	}
	return t.modes[i]
}

// ModeIndex returns the index of the named mode, or -1.
func (t *Type) ModeIndex(name string) int {
	for i, m := range t.modes {
		if m.Name() == name {
			return i
		}
	}
	return -1
}

// IsNextTurnModeSwitch reports whether switching into or out of the named
// mode only takes effect at the next round boundary.
func (t *Type) IsNextTurnModeSwitch(name string) bool { return t.nextTurn[name] }

// CanSwitchInstantly reports whether a change between the two named modes
// applies immediately.
func (t *Type) CanSwitchInstantly(from, to string) bool {
	return t.InstantModeSwitch && !t.nextTurn[from] && !t.nextTurn[to]
}

// IsAmmoFed reports whether the type is a weapon that draws from a linked bin.
func (t *Type) IsAmmoFed() bool {
	return t.Kind == KindWeapon && t.AmmoType != ""
}

// AcceptsAmmo reports whether ammo can feed a weapon of this type.
func (t *Type) AcceptsAmmo(ammo *Type) bool {
	return t.IsAmmoFed() && ammo != nil && ammo.Kind == KindAmmo &&
		ammo.AmmoType == t.AmmoType && ammo.RackSize == t.RackSize
}

func (t *Type) Aliases() []string { return append([]string(nil), t.aliases...) }

// TonnageFor returns the weight of one mount of the given size.
func (t *Type) TonnageFor(size float64) float64 {
	if !t.VariableSize {
		return t.Tonnage
	}
	return t.Tonnage * size
}

// SlotsFor returns the critical slots one mount of the given size occupies.
func (t *Type) SlotsFor(size float64) int {
	if !t.VariableSize {
		return t.CriticalSlots
	}
	return int(math.Ceil(float64(t.CriticalSlots) * size))
}
