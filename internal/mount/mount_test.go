package mount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/modes"
)

func mustType(t *testing.T, name string) *equipment.Type {
	t.Helper()
	typ, err := equipment.Default().Get(name)
	require.NoError(t, err)
	return typ
}

func add(t *testing.T, l *List, name string) *Mount {
	t.Helper()
	m := New(mustType(t, name), 0)
	l.Add(m)
	return m
}

type fakeHost struct {
	shutDown bool
	crew     bool
	swarm    *fakeHost
}

func (h *fakeHost) IsShutDown() bool { return h.shutDown }
func (h *fakeHost) CrewActive() bool { return h.crew }
func (h *fakeHost) SwarmAttacker() Host {
	if h.swarm == nil {
		return nil
	}
	return h.swarm
}

// ─── Linkage ────────────────────────────────────────────────────────────────

func TestSetLinkedSetsBackLink(t *testing.T) {
	l := NewList()
	ac := add(t, l, "Autocannon/10")
	ammo := add(t, l, "IS Ammo AC/10")

	require.True(t, l.SetLinked(ac.ID(), ammo.ID()))
	assert.Equal(t, ammo.ID(), ac.LinkedID())
	assert.Equal(t, ac.ID(), ammo.LinkedByID())
	assert.Same(t, ammo, l.Linked(ac))
	assert.Same(t, ac, l.LinkedBy(ammo))
}

func TestRelinkLeavesStaleBackLink(t *testing.T) {
	l := NewList()
	a := add(t, l, "Autocannon/10")
	b := add(t, l, "IS Ammo AC/10")
	c := add(t, l, "IS Ammo AC/10")

	l.SetLinked(a.ID(), b.ID())
	l.SetLinked(a.ID(), c.ID())

	assert.Equal(t, c.ID(), a.LinkedID())
	assert.Equal(t, a.ID(), c.LinkedByID())
	assert.Equal(t, a.ID(), b.LinkedByID(), "old target keeps its back-link")
}

func TestLiarBackLinkRejected(t *testing.T) {
	l := NewList()
	ppc := add(t, l, "PPC")
	cap1 := add(t, l, "PPC Capacitor")
	liar := add(t, l, "PPC Capacitor")

	l.SetLinked(cap1.ID(), ppc.ID())
	assert.False(t, l.SetLinkedBy(ppc.ID(), liar.ID()))
	assert.False(t, l.SetCrossLinkedBy(ppc.ID(), liar.ID()))
	assert.Equal(t, cap1.ID(), ppc.LinkedByID())
	assert.Equal(t, NoID, ppc.CrossLinkedByID())

	assert.True(t, l.SetLinkedBy(ppc.ID(), cap1.ID()))
}

func TestSetLinkedOutOfRange(t *testing.T) {
	l := NewList()
	a := add(t, l, "Autocannon/10")
	assert.False(t, l.SetLinked(a.ID(), 7))
	assert.False(t, l.SetLinked(9, a.ID()))
	assert.Equal(t, NoID, a.LinkedID())
	assert.Nil(t, l.Mount(NoID))
}

// ─── Shots ──────────────────────────────────────────────────────────────────

func TestSetShotsLeftClamps(t *testing.T) {
	for _, n := range []int{-100, -1, 0, 1, 20, 1000} {
		m := New(mustType(t, "IS Ammo AC/10"), 0)
		m.SetShotsLeft(n)
		assert.Equal(t, max(0, n), m.BaseShotsLeft(), "n=%d", n)
	}
}

func TestShotViewsMonotone(t *testing.T) {
	typ := mustType(t, "IS Ultra AC/5 Ammo")
	for mask := 0; mask < 8; mask++ {
		m := New(typ, 0)
		m.SetDestroyed(mask&1 != 0)
		m.SetMissing(mask&2 != 0)
		m.SetUseless(mask&4 != 0)
		assert.LessOrEqual(t, m.UsableShotsLeft(), m.HittableShotsLeft(), "mask=%03b", mask)
		assert.LessOrEqual(t, m.HittableShotsLeft(), m.BaseShotsLeft(), "mask=%03b", mask)
	}
}

func TestShotViewsScenario(t *testing.T) {
	m := New(mustType(t, "IS Ultra AC/5 Ammo"), 0)
	require.Equal(t, 20, m.BaseShotsLeft())
	assert.Equal(t, 20, m.UsableShotsLeft())

	m.SetUseless(true)
	assert.Equal(t, 0, m.UsableShotsLeft())
	assert.Equal(t, 20, m.HittableShotsLeft())

	m.SetUseless(false)
	m.SetDestroyed(true)
	assert.Equal(t, 0, m.UsableShotsLeft())
	assert.Equal(t, 0, m.HittableShotsLeft())
	assert.Equal(t, 20, m.BaseShotsLeft())
}

func TestNumShots(t *testing.T) {
	uac := mustType(t, "Ultra AC/5")
	rac := mustType(t, "Rotary AC/5")
	ml := mustType(t, "Medium Laser")
	ammo := mustType(t, "IS Ammo AC/10")

	tests := []struct {
		name       string
		typ        *equipment.Type
		mode       *modes.Mode
		ignoreMode bool
		want       int
	}{
		{"laser", ml, modes.None, false, 1},
		{"laser ignore mode", ml, modes.None, true, 1},
		{"ultra single", uac, modes.Get(modes.Single), false, 1},
		{"ultra ultra", uac, modes.Get(modes.Ultra), false, 2},
		{"ultra ignore mode", uac, modes.Get(modes.Single), true, 2},
		{"rotary single", rac, modes.Get(modes.Single), false, 1},
		{"rotary 4-shot", rac, modes.Get(modes.RotaryShots(4)), false, 4},
		{"rotary 6-shot", rac, modes.Get(modes.RotaryShots(6)), false, 6},
		{"rotary ignore mode", rac, modes.Get(modes.Single), true, 6},
		{"ammo", ammo, modes.None, false, 0},
		{"nil type", nil, modes.None, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumShots(tt.typ, tt.mode, tt.ignoreMode))
		})
	}
}

// ─── Modes ──────────────────────────────────────────────────────────────────

func TestSetModeInstant(t *testing.T) {
	m := New(mustType(t, "Ultra AC/5"), 0)
	require.True(t, m.SetModeByName(modes.Ultra))
	assert.True(t, m.CurMode().Is(modes.Ultra))
	assert.Same(t, modes.None, m.PendingMode())
	assert.Equal(t, 2, m.CurrentShots())
}

func TestSetModeDelayed(t *testing.T) {
	m := New(mustType(t, "Null Signature System"), 0)
	require.True(t, m.SetModeByName(modes.On))
	assert.True(t, m.CurMode().Is(modes.Off))
	assert.True(t, m.PendingMode().Is(modes.On))

	res := m.NewRound()
	assert.True(t, res.ModeCommitted)
	assert.True(t, m.CurMode().Is(modes.On))
	assert.Same(t, modes.None, m.PendingMode())
}

func TestSetModeNextTurnOnlyName(t *testing.T) {
	m := New(mustType(t, "Communications Equipment"), 0)
	require.True(t, m.SetModeByName("ECCM"))
	assert.True(t, m.CurMode().Is("ECCM"), "instant between ordinary modes")

	require.True(t, m.SetModeByName("Ghost Targets"))
	assert.True(t, m.CurMode().Is("ECCM"))
	assert.True(t, m.PendingMode().Is("Ghost Targets"))
}

func TestSetModeCurrentCancelsPending(t *testing.T) {
	m := New(mustType(t, "Null Signature System"), 0)
	m.SetModeByName(modes.On)
	require.True(t, m.PendingMode().Is(modes.On))

	assert.True(t, m.SetModeByName(modes.Off))
	assert.Same(t, modes.None, m.PendingMode())
	assert.False(t, m.NewRound().ModeCommitted)
	assert.True(t, m.CurMode().Is(modes.Off))
}

func TestSetModeOutOfRange(t *testing.T) {
	m := New(mustType(t, "Ultra AC/5"), 0)
	assert.False(t, m.SetMode(-1))
	assert.False(t, m.SetMode(2))
	assert.False(t, m.SetModeByName("Nope"))
	assert.Equal(t, 0, m.ModeIndex())
	assert.Equal(t, -1, m.PendingModeIndex())
}

func TestSwitchModeWithoutModes(t *testing.T) {
	m := New(mustType(t, "Medium Laser"), 0)
	assert.Equal(t, -1, m.SwitchMode(true))
	assert.Equal(t, -1, m.SwitchMode(false))
	assert.Equal(t, 0, m.ModeIndex())
	assert.Same(t, modes.None, m.CurMode())
	assert.Same(t, modes.None, m.PendingMode())
}

func TestSwitchModeCycles(t *testing.T) {
	m := New(mustType(t, "Rotary AC/5"), 0)
	assert.Equal(t, 5, m.SwitchMode(false), "backward from 0 wraps")
	assert.Equal(t, 0, m.SwitchMode(true), "forward from last wraps")
	assert.Equal(t, 1, m.SwitchMode(true))
	assert.Equal(t, 2, m.CurrentShots())
}

func TestSwitchModeStepsFromPending(t *testing.T) {
	m := New(mustType(t, "Communications Equipment"), 0)
	m.SetModeByName("ECCM")
	assert.Equal(t, 2, m.SwitchMode(true))
	require.True(t, m.PendingMode().Is("Ghost Targets"))
	assert.Equal(t, 0, m.SwitchMode(true), "steps from the pending index")
}

func TestSwitchModeNotSwitchable(t *testing.T) {
	m := New(mustType(t, "Ultra AC/5"), 0)
	m.SetModeSwitchable(false)
	assert.Equal(t, -1, m.SwitchMode(true))
	assert.True(t, m.CurMode().Is(modes.Single))
}

// ─── Operational state ──────────────────────────────────────────────────────

func TestIsCrippled(t *testing.T) {
	l := NewList()
	ac := add(t, l, "Autocannon/10")
	ammo := add(t, l, "IS Ammo AC/10")

	assert.True(t, ac.IsCrippled(l), "ammo-fed weapon without a link")

	l.SetLinked(ac.ID(), ammo.ID())
	assert.False(t, ac.IsCrippled(l))

	ammo.SetShotsLeft(0)
	assert.True(t, ac.IsCrippled(l))

	ammo.SetShotsLeft(3)
	ammo.SetUseless(true)
	assert.True(t, ac.IsCrippled(l), "breached bin has no usable shots")
	ammo.SetUseless(false)

	ac.SetDestroyed(true)
	assert.True(t, ac.IsCrippled(l))

	laser := add(t, l, "Medium Laser")
	assert.False(t, laser.IsCrippled(l))
	laser.SetJammed(true)
	assert.False(t, laser.IsCrippled(l), "jam is not visible before the phase boundary")
	laser.NewPhase(game.PhaseFiring, game.Options{})
	assert.True(t, laser.IsCrippled(l))
}

func TestDestroyedAlwaysCrippled(t *testing.T) {
	typ := mustType(t, "Medium Laser")
	for mask := 0; mask < 16; mask++ {
		m := New(typ, 0)
		m.SetDestroyed(true)
		m.SetMissing(mask&1 != 0)
		m.SetUseless(mask&2 != 0)
		m.SetFired(mask&4 != 0)
		m.SetDWPMounted(mask&8 != 0)
		assert.True(t, m.IsCrippled(nil), "mask=%04b", mask)
	}
}

func TestDWPReadiness(t *testing.T) {
	l := NewList()
	w := add(t, l, "Medium Laser")
	pack := add(t, l, "Detachable Weapon Pack")
	w.SetDWPMounted(true)

	assert.False(t, w.IsReady(false, false))
	assert.False(t, w.IsReady(true, true))

	l.SetLinked(pack.ID(), w.ID())
	assert.True(t, w.IsReady(false, false))
	assert.True(t, w.IsCrippled(l), "a weapon still on its pack does not count")

	w.SetUsedThisRound(true, game.PhaseFiring)
	assert.False(t, w.IsReady(false, false))
	assert.True(t, w.IsReady(false, true))
	assert.True(t, w.IsReady(true, false))
}

func TestCarrierLinkMarksWeapon(t *testing.T) {
	l := NewList()
	w := add(t, l, "Medium Laser")
	pack := add(t, l, "Detachable Weapon Pack")
	require.True(t, l.SetLinked(pack.ID(), w.ID()))
	assert.True(t, w.IsDWPMounted())
	assert.False(t, w.IsAPMMounted())
	assert.True(t, w.IsReady(false, false))

	rifle := add(t, l, "Medium Laser")
	glove := add(t, l, "Armored Glove")
	require.True(t, l.SetLinked(glove.ID(), rifle.ID()))
	assert.True(t, rifle.IsAPMMounted())
	assert.False(t, rifle.IsDWPMounted())

	bin := add(t, l, "IS Ammo AC/10")
	ac := add(t, l, "Autocannon/10")
	require.True(t, l.SetLinked(ac.ID(), bin.ID()))
	assert.False(t, bin.IsDWPMounted())
	assert.False(t, bin.IsAPMMounted())
}

func TestOneShotCrippledOnlyWhenFired(t *testing.T) {
	l := NewList()
	m := add(t, l, "LRM 10 (OS)")
	require.True(t, m.IsOneShot())
	assert.Equal(t, NoID, m.LinkedID())

	assert.False(t, m.IsCrippled(l), "an unfired one-shot needs no bin")
	assert.True(t, m.IsReady(false, false))

	m.SetFired(true)
	assert.True(t, m.IsCrippled(l))
	assert.False(t, m.IsReady(false, false))
}

func TestCanFireWithoutHost(t *testing.T) {
	m := New(mustType(t, "Medium Laser"), 0)
	assert.False(t, m.CanFire(nil, true, false, false))
	assert.False(t, m.CanFire(nil, false, false, false))
}

func TestJamDetectionDelay(t *testing.T) {
	m := New(mustType(t, "Autocannon/10"), 0)
	m.SetJammed(true)
	assert.False(t, m.IsJammed())
	assert.True(t, m.IsJamPending())
	assert.True(t, m.IsReady(false, false))

	res := m.NewPhase(game.PhasePhysical, game.Options{})
	assert.True(t, res.JamRevealed)
	assert.True(t, m.IsJammed())
	assert.False(t, m.IsReady(false, false))

	assert.False(t, m.NewPhase(game.PhaseEnd, game.Options{}).JamRevealed)
}

func TestCanFire(t *testing.T) {
	m := New(mustType(t, "Medium Laser"), 0)

	tests := []struct {
		name          string
		host          *fakeHost
		considerSwarm bool
		want          bool
	}{
		{"active", &fakeHost{crew: true}, false, true},
		{"shut down", &fakeHost{crew: true, shutDown: true}, false, false},
		{"crew out", &fakeHost{}, false, false},
		{"swarm crew active", &fakeHost{swarm: &fakeHost{crew: true}}, true, true},
		{"swarm crew out", &fakeHost{crew: true, swarm: &fakeHost{}}, true, false},
		{"swarm ignored", &fakeHost{crew: true, swarm: &fakeHost{}}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.CanFire(tt.host, tt.considerSwarm, false, false))
		})
	}

	m.SetFired(true)
	assert.False(t, m.CanFire(&fakeHost{crew: true}, false, false, false))
}

func TestUnresolvedIsInoperable(t *testing.T) {
	m := NewUnresolved("Mystery Cannon", 2)
	assert.False(t, m.IsResolved())
	assert.False(t, m.IsOperable())
	assert.True(t, m.IsInoperable())
	assert.False(t, m.IsReady(true, true))
	assert.True(t, m.IsCrippled(nil))
	assert.Equal(t, 0, m.CurrentHeat(nil))
	assert.Equal(t, 0, m.ExplosionDamage(nil))
	assert.Equal(t, -1, m.SwitchMode(true))
	assert.Same(t, modes.None, m.CurMode())
	assert.Equal(t, "Mystery Cannon", m.Name())
}

func TestRadicalHeatSinkEffect(t *testing.T) {
	rhs := New(mustType(t, "Radical Heat Sink System"), 0)
	assert.Equal(t, EffectSpecialDamage, rhs.SetHit(true))
	assert.Equal(t, EffectSpecialDamage, rhs.SetDestroyed(true))
	assert.Equal(t, EffectNone, rhs.SetDestroyed(false))

	laser := New(mustType(t, "Medium Laser"), 0)
	assert.Equal(t, EffectNone, laser.SetDestroyed(true))
}

func TestPlacementClamps(t *testing.T) {
	m := New(mustType(t, "Communications Equipment"), 3)
	assert.False(t, m.IsSplit())
	m.SetSecondaryLocation(4)
	assert.True(t, m.IsSplit())
	m.SetSecondaryLocation(-7)
	assert.False(t, m.IsSplit())
	assert.Equal(t, LocNone, m.SecondaryLocation())

	m.SetNumWeapons(0)
	assert.Equal(t, 1, m.NumWeapons())
	m.SetNumWeapons(99)
	assert.Equal(t, 40, m.NumWeapons())

	m.SetSize(-1)
	assert.Equal(t, 1.0, m.Size())
	m.SetSize(2.5)
	assert.Equal(t, 3, m.CriticalSlots())
	assert.InDelta(t, 2.5, m.Tonnage(), 1e-9)
	m.SetArmored(true)
	assert.InDelta(t, 4.0, m.Tonnage(), 1e-9)
}
