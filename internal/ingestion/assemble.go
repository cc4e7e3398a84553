package ingestion

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/mount"
	"github.com/JustinWhittecar/mekmount/internal/unit"
)

// Loadout is a unit built from an .mtf file plus anything the assembler could
// not place or link.
type Loadout struct {
	Unit     *unit.Unit
	Warnings []string
}

// slot is one critical-slot line with its placement suffixes stripped.
type slot struct {
	name    string
	size    float64
	rear    bool
	omni    bool
	armored bool
	turret  bool
}

var slotSuffixes = []struct {
	tag string
	set func(*slot)
}{
	{" (R)", func(s *slot) { s.rear = true }},
	{" (OMNIPOD)", func(s *slot) { s.omni = true }},
	{" (ARMORED)", func(s *slot) { s.armored = true }},
	{" (T)", func(s *slot) { s.turret = true }},
}

func parseSlot(raw string) slot {
	s := slot{name: strings.TrimSpace(raw)}
	for stripped := true; stripped; {
		stripped = false
		for _, suf := range slotSuffixes {
			if name, ok := strings.CutSuffix(s.name, suf.tag); ok {
				s.name = name
				suf.set(&s)
				stripped = true
			}
		}
	}
	// Variable-size equipment is written as "ISCommsGear:SIZE:3.0".
	if name, size, ok := strings.Cut(s.name, ":SIZE:"); ok {
		s.name = name
		s.size, _ = strconv.ParseFloat(size, 64)
	}
	return s
}

// Slot contents that are part of the chassis, not mounted equipment.
var structuralSlots = map[string]bool{
	"-empty-":      true,
	"gyro":         true,
	"cockpit":      true,
	"life support": true,
	"sensors":      true,
	"shoulder":     true,
	"hip":          true,
	"case":         true,
	"is case":      true,
	"clcase":       true,
}

var structuralParts = []string{
	"engine",
	"actuator",
	"heat sink",
	"heatsink",
	"endo steel",
	"endo-steel",
	"ferro-fibrous",
	"jump jet",
}

func isStructural(name string) bool {
	lower := strings.ToLower(name)
	if structuralSlots[lower] {
		return true
	}
	for _, part := range structuralParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

type assembler struct {
	u        *unit.Unit
	types    unit.TypeResolver
	log      zerolog.Logger
	warnings []string
}

func (a *assembler) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.log.Warn().Msg(msg)
	a.warnings = append(a.warnings, msg)
}

// Assemble builds a unit from parsed .mtf data. Runs of identical slot lines
// become mounts, equipment is linked the way MegaMek links it on load, and
// any system mode named in the file is requested on the matching mounts.
// Unknown equipment is kept as unresolved mounts and reported in Warnings.
func Assemble(data *MTFData, types unit.TypeResolver, opts game.Options, log zerolog.Logger) (*Loadout, error) {
	if data == nil {
		return nil, errors.New("assemble: no mtf data")
	}
	if types == nil {
		return nil, errors.New("assemble: no equipment catalog")
	}
	a := &assembler{
		u:     unit.New(data.FullName(), opts, log),
		types: types,
		log:   log.With().Str("mtf", data.FullName()).Logger(),
	}

	placed := 0
	for _, header := range locationHeaders {
		slots, ok := data.LocationEquipment[header]
		if !ok {
			continue
		}
		a.placeLocation(LocationIndex(header), slots)
		placed++
	}
	if placed == 0 {
		return nil, fmt.Errorf("assemble %q: no location blocks", data.FullName())
	}

	a.linkAmmo()
	a.linkCapacitors()
	a.linkInsulators()
	a.applySystemModes(data.SystemMode)

	a.log.Debug().Int("mounts", a.u.Len()).Int("warnings", len(a.warnings)).Msg("assembled loadout")
	return &Loadout{Unit: a.u, Warnings: a.warnings}, nil
}

func (a *assembler) placeLocation(loc int, lines []string) {
	for i := 0; i < len(lines); {
		s := parseSlot(lines[i])
		j := i + 1
		for j < len(lines) && parseSlot(lines[j]) == s {
			j++
		}
		a.placeRun(loc, s, j-i)
		i = j
	}
}

// placeRun turns n consecutive identical slots into mounts.
func (a *assembler) placeRun(loc int, s slot, n int) {
	t, err := a.types.Get(s.name)
	if err != nil {
		if isStructural(s.name) {
			return
		}
		a.warn("%s: %v", LocationAbbrev(loc), err)
		m := mount.NewUnresolved(s.name, loc)
		a.u.AddMount(m)
		a.place(m, s)
		return
	}

	if t.VariableSize {
		m := a.u.Add(t, loc)
		a.place(m, s)
		size := s.size
		if size == 0 {
			size = float64(n) / float64(max(1, t.CriticalSlots))
		}
		m.SetSize(size)
		return
	}

	per := max(1, t.CriticalSlots)
	for range (n + per - 1) / per {
		a.place(a.u.Add(t, loc), s)
	}
}

func (a *assembler) place(m *mount.Mount, s slot) {
	m.SetRearMounted(s.rear)
	m.SetOmniPodMounted(s.omni)
	m.SetArmored(s.armored)
	if s.turret {
		m.SetTurret(mount.TurretMech)
	}
}

// linkAmmo feeds every ammo-using weapon from the first bin that accepts it,
// preferring bins in the weapon's own location.
func (a *assembler) linkAmmo() {
	mounts := a.u.Mounts()
	var bins []*mount.Mount
	for _, m := range mounts {
		if k, ok := m.Kind(); ok && k == equipment.KindAmmo {
			bins = append(bins, m)
		}
	}

	for _, w := range mounts {
		t := w.Type()
		if t == nil || !t.IsAmmoFed() || w.IsOneShot() {
			continue
		}
		var pick *mount.Mount
		for _, b := range bins {
			if !t.AcceptsAmmo(b.Type()) {
				continue
			}
			if b.Location() == w.Location() {
				pick = b
				break
			}
			if pick == nil {
				pick = b
			}
		}
		if pick == nil {
			a.warn("%s: no ammo for %s", LocationAbbrev(w.Location()), t.Name)
			continue
		}
		a.u.SetLinked(w.ID(), pick.ID())
	}
}

// candidates returns the mounts in m's location that satisfy ok, nearest
// preceding first, followed by those after m.
func (a *assembler) candidates(m *mount.Mount, ok func(*mount.Mount) bool) []*mount.Mount {
	var before, after []*mount.Mount
	for _, c := range a.u.Mounts() {
		if c.Location() != m.Location() || !ok(c) {
			continue
		}
		if c.ID() < m.ID() {
			before = append(before, c)
		} else if c.ID() > m.ID() {
			after = append(after, c)
		}
	}
	slices.Reverse(before)
	return append(before, after...)
}

func hasFlag(m *mount.Mount, f equipment.Flag) bool {
	return m.Type() != nil && m.Type().HasFlag(f)
}

// linkCapacitors attaches each PPC capacitor to a PPC in its location. A PPC
// takes a second capacitor as its cross-linker only when no other PPC there
// is free.
func (a *assembler) linkCapacitors() {
	for _, c := range a.u.Mounts() {
		if !hasFlag(c, equipment.FlagPPCCapacitor) {
			continue
		}
		ppcs := a.candidates(c, func(m *mount.Mount) bool { return hasFlag(m, equipment.FlagPPC) })
		if len(ppcs) == 0 {
			a.warn("%s: %s without a PPC", LocationAbbrev(c.Location()), c.Name())
			continue
		}
		if i := slices.IndexFunc(ppcs, func(p *mount.Mount) bool { return p.LinkedByID() == mount.NoID }); i >= 0 {
			a.u.SetLinked(c.ID(), ppcs[i].ID())
			continue
		}
		i := slices.IndexFunc(ppcs, func(p *mount.Mount) bool { return p.CrossLinkedByID() == mount.NoID })
		if i < 0 {
			a.warn("%s: no free PPC for %s", LocationAbbrev(c.Location()), c.Name())
			continue
		}
		ppc := ppcs[i]
		first := ppc.LinkedByID()
		a.u.SetLinked(c.ID(), ppc.ID())
		a.u.SetLinkedBy(ppc.ID(), first)
		a.u.SetCrossLinkedBy(ppc.ID(), c.ID())
	}
}

// linkInsulators attaches each laser insulator to a laser in its location.
func (a *assembler) linkInsulators() {
	isLaser := func(m *mount.Mount) bool {
		k, ok := m.Kind()
		return ok && k == equipment.KindWeapon &&
			hasFlag(m, equipment.FlagEnergy) && !hasFlag(m, equipment.FlagPPC) &&
			m.LinkedByID() == mount.NoID
	}
	for _, ins := range a.u.Mounts() {
		if !hasFlag(ins, equipment.FlagLaserInsulator) {
			continue
		}
		lasers := a.candidates(ins, isLaser)
		if len(lasers) == 0 {
			a.warn("%s: %s without a laser", LocationAbbrev(ins.Location()), ins.Name())
			continue
		}
		a.u.SetLinked(ins.ID(), lasers[0].ID())
	}
}

// applySystemModes requests the named starting mode on every mount of each
// listed system. Modes that need a round boundary stay pending until then.
func (a *assembler) applySystemModes(systems map[string]string) {
	names := make([]string, 0, len(systems))
	for name := range systems {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		mode := systems[name]
		t, err := a.types.Get(name)
		if err != nil {
			a.warn("system mode %q: %v", name, err)
			continue
		}
		for _, m := range a.u.Mounts() {
			if m.Type() != t {
				continue
			}
			if !a.u.SetModeByName(m.ID(), mode) {
				a.warn("%s: %s has no mode %q", LocationAbbrev(m.Location()), t.Name, mode)
			}
		}
	}
}
