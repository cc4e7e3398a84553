package mount

import (
	"strconv"
	"strings"

	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/modes"
)

const (
	ultraBurst     = 2
	rotaryMaxBurst = 6
)

// BaseShotsLeft is the raw counter.
func (m *Mount) BaseShotsLeft() int { return m.shotsLeft }

// HittableShotsLeft is what a critical hit on the bin can still ignite.
func (m *Mount) HittableShotsLeft() int {
	if m.typ == nil || m.destroyed || m.missing {
		return 0
	}
	return m.shotsLeft
}

// UsableShotsLeft is what can still be fired.
func (m *Mount) UsableShotsLeft() int {
	if !m.IsOperable() {
		return 0
	}
	return m.shotsLeft
}

// SetShotsLeft clamps n to zero or more.
func (m *Mount) SetShotsLeft(n int) { m.shotsLeft = max(0, n) }

func (m *Mount) OriginalShots() int { return m.originalShots }

func (m *Mount) SetOriginalShots(n int) { m.originalShots = max(0, n) }

// NumShots is the number of shots one attack of a weapon of type t fires in
// mode. With ignoreMode set it returns the family's maximum.
func NumShots(t *equipment.Type, mode *modes.Mode, ignoreMode bool) int {
	if t == nil || t.Kind != equipment.KindWeapon {
		return 0
	}
	switch t.AmmoType {
	case equipment.AmmoACUltra, equipment.AmmoACUltraThunderbolt:
		if ignoreMode || mode.Is(modes.Ultra) {
			return ultraBurst
		}
	case equipment.AmmoACRotary:
		if ignoreMode {
			return rotaryMaxBurst
		}
		if n, ok := rotaryShots(mode); ok {
			return n
		}
	}
	return 1
}

func rotaryShots(mode *modes.Mode) (int, bool) {
	if mode == nil || mode == modes.None {
		return 0, false
	}
	s, ok := strings.CutSuffix(mode.Name(), "-shot")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > rotaryMaxBurst {
		return 0, false
	}
	return n, true
}

// CurrentShots is NumShots for the mount's committed mode.
func (m *Mount) CurrentShots() int { return NumShots(m.typ, m.CurMode(), false) }
