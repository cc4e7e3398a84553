package mount

import (
	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
)

// Record is the flat, serializable form of a mount. Links are list indices,
// -1 when absent.
type Record struct {
	TypeName          string     `json:"type"`
	Location          int        `json:"location"`
	SecondaryLocation int        `json:"secondaryLocation"`
	RearMounted       bool       `json:"rearMounted,omitempty"`
	Size              float64    `json:"size"`
	Destroyed         bool       `json:"destroyed,omitempty"`
	Hit               bool       `json:"hit,omitempty"`
	Missing           bool       `json:"missing,omitempty"`
	Jammed            bool       `json:"jammed,omitempty"`
	JammedThisPhase   bool       `json:"jammedThisPhase,omitempty"`
	Useless           bool       `json:"useless,omitempty"`
	Fired             bool       `json:"fired,omitempty"`
	UsedThisRound     bool       `json:"usedThisRound,omitempty"`
	UsedInPhase       game.Phase `json:"usedInPhase"`
	Mode              int        `json:"mode"`
	PendingMode       int        `json:"pendingMode"`
	ModeSwitchable    bool       `json:"modeSwitchable"`
	ShotsLeft         int        `json:"shotsLeft"`
	OriginalShots     int        `json:"originalShots"`
	WeaponGroup       bool       `json:"weaponGroup,omitempty"`
	NumWeapons        int        `json:"numWeapons"`
	OneShot           bool       `json:"oneShot,omitempty"`
	OmniPod           bool       `json:"omniPod,omitempty"`
	Armored           bool       `json:"armored,omitempty"`
	DWPMounted        bool       `json:"dwpMounted,omitempty"`
	APMMounted        bool       `json:"apmMounted,omitempty"`
	Turret            Turret     `json:"turret,omitempty"`
	Facing            int        `json:"facing"`
	HotLoaded         bool       `json:"hotLoaded,omitempty"`
	PendingDump       bool       `json:"pendingDump,omitempty"`
	Dumping           bool       `json:"dumping,omitempty"`
	Linked            int        `json:"linked"`
	LinkedBy          int        `json:"linkedBy"`
	CrossLinkedBy     int        `json:"crossLinkedBy"`
}

// Record captures the mount's full runtime state.
func (m *Mount) Record() Record {
	rec := Record{
		TypeName:          m.typeName,
		Location:          m.location,
		SecondaryLocation: m.secondaryLocation,
		RearMounted:       m.rearMounted,
		Size:              m.size,
		Destroyed:         m.destroyed,
		Hit:               m.hit,
		Missing:           m.missing,
		Jammed:            m.jammed,
		JammedThisPhase:   m.jammedThisPhase,
		Useless:           m.useless,
		Fired:             m.fired,
		UsedThisRound:     m.usedThisRound,
		UsedInPhase:       m.usedInPhase,
		Mode:              m.mode,
		PendingMode:       m.pendingMode,
		ModeSwitchable:    m.modeSwitchable,
		ShotsLeft:         m.shotsLeft,
		OriginalShots:     m.originalShots,
		WeaponGroup:       m.weaponGroup,
		NumWeapons:        m.numWeapons,
		OneShot:           m.oneShot,
		OmniPod:           m.omniPod,
		Armored:           m.armored,
		DWPMounted:        m.dwpMounted,
		APMMounted:        m.apmMounted,
		Turret:            m.turret,
		Facing:            m.facing,
		Linked:            int(m.linked),
		LinkedBy:          int(m.linkedBy),
		CrossLinkedBy:     int(m.crossLinkedBy),
	}
	if a := m.Ammo(); a != nil {
		rec.HotLoaded = a.HotLoaded
		rec.PendingDump = a.PendingDump
		rec.Dumping = a.Dumping
	}
	return rec
}

// FromRecord rebuilds a mount without its links; List.RestoreLinks sets them
// once every mount of the unit exists. A nil t yields an unresolved mount
// that keeps the recorded name.
func FromRecord(rec Record, t *equipment.Type) *Mount {
	var m *Mount
	if t == nil {
		m = NewUnresolved(rec.TypeName, rec.Location)
	} else {
		m = New(t, rec.Location)
	}
	m.SetSecondaryLocation(rec.SecondaryLocation)
	m.rearMounted = rec.RearMounted
	m.SetSize(rec.Size)
	m.destroyed = rec.Destroyed
	m.hit = rec.Hit
	m.missing = rec.Missing
	m.jammed = rec.Jammed
	m.jammedThisPhase = rec.JammedThisPhase
	m.useless = rec.Useless
	m.fired = rec.Fired
	m.usedThisRound = rec.UsedThisRound
	m.usedInPhase = rec.UsedInPhase
	m.modeSwitchable = rec.ModeSwitchable
	m.SetShotsLeft(rec.ShotsLeft)
	m.SetOriginalShots(rec.OriginalShots)
	m.weaponGroup = rec.WeaponGroup
	m.SetNumWeapons(rec.NumWeapons)
	m.oneShot = rec.OneShot
	m.omniPod = rec.OmniPod
	m.armored = rec.Armored
	m.dwpMounted = rec.DWPMounted
	m.apmMounted = rec.APMMounted
	m.turret = rec.Turret
	m.facing = rec.Facing

	if t != nil {
		if rec.Mode >= 0 && rec.Mode < t.ModeCount() {
			m.mode = rec.Mode
		}
		if rec.PendingMode >= 0 && rec.PendingMode < t.ModeCount() {
			m.pendingMode = rec.PendingMode
		}
	} else {
		m.mode = rec.Mode
		m.pendingMode = rec.PendingMode
	}
	if a := m.Ammo(); a != nil {
		a.HotLoaded = rec.HotLoaded
		a.PendingDump = rec.PendingDump
		a.Dumping = rec.Dumping
	}
	return m
}

// RestoreLinks writes recorded link IDs as stored, without the symmetry or
// liar checks of the linking mutators, so stale back-links survive a round
// trip. IDs outside the arena are dropped and reported with false.
func (l *List) RestoreLinks(id ID, linked, linkedBy, crossLinkedBy int) bool {
	m := l.Mount(id)
	if m == nil {
		return false
	}
	ok := true
	check := func(raw int) ID {
		if raw < 0 {
			return NoID
		}
		if l.Mount(ID(raw)) == nil {
			ok = false
			return NoID
		}
		return ID(raw)
	}
	m.linked = check(linked)
	m.linkedBy = check(linkedBy)
	m.crossLinkedBy = check(crossLinkedBy)
	return ok
}
