package ingestion

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/mount"
)

const awesomeMTF = `
# generated by hand
chassis:Awesome
model:AWS-8Q
mul id:53
Config:Biped
techbase:Inner Sphere
era:2665
source:TRO 3025
rules level:1
mass:80
quirk:ubiquitous_is
systemmanufacturer:ENGINE:Pitban
systemmode:Communications Equipment:ECCM

Weapons:3
PPC, Left Torso
PPC, Right Torso
LRM 10, Left Arm

Left Arm:
Shoulder
Upper Arm Actuator
LRM 10
LRM 10
IS Ammo LRM-10
-Empty-

Right Arm:
Shoulder
Medium Laser
Laser Insulator
Medium Laser (R)

Left Torso:
PPC
PPC
PPC
PPC Capacitor
PPC Capacitor
IS Ammo LRM-10
Mystery Widget
Mystery Widget

Right Torso:
PPC
PPC
PPC
PPC
PPC
PPC
PPC Capacitor
PPC Capacitor

Center Torso:
Fusion Engine
Fusion Engine
Gyro
ISCommsGear:SIZE:2.0
ISCommsGear:SIZE:2.0

Head:
Life Support
Sensors
Cockpit
Medium Laser (OMNIPOD)
`

func parseAwesome(t *testing.T) *MTFData {
	t.Helper()
	data, err := ParseMTFReader(strings.NewReader(awesomeMTF))
	require.NoError(t, err)
	return data
}

func TestParseMTFReader(t *testing.T) {
	data := parseAwesome(t)

	assert.Equal(t, "Awesome AWS-8Q", data.FullName())
	assert.Equal(t, 53, data.MulID)
	assert.Equal(t, 80, data.Mass)
	assert.Equal(t, "Biped", data.Config)
	assert.Equal(t, []string{"ubiquitous_is"}, data.Quirks)
	assert.Equal(t, "Pitban", data.SystemManufacturer["ENGINE"])
	assert.Equal(t, "ECCM", data.SystemMode["Communications Equipment"])
	assert.Equal(t, []WeaponEntry{
		{Name: "PPC", Location: "Left Torso"},
		{Name: "PPC", Location: "Right Torso"},
		{Name: "LRM 10", Location: "Left Arm"},
	}, data.Weapons)
	assert.Len(t, data.LocationEquipment, 6)
	assert.Equal(t, []string{"Shoulder", "Medium Laser", "Laser Insulator", "Medium Laser (R)"}, data.LocationEquipment["Right Arm"])
}

func TestParseMTFReaderRequiresChassis(t *testing.T) {
	_, err := ParseMTFReader(strings.NewReader("model:X\nHead:\nCockpit\n"))
	assert.Error(t, err)
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		raw  string
		want slot
	}{
		{"Medium Laser", slot{name: "Medium Laser"}},
		{"Medium Laser (R)", slot{name: "Medium Laser", rear: true}},
		{"PPC (OMNIPOD)", slot{name: "PPC", omni: true}},
		{"Medium Laser (R) (OMNIPOD)", slot{name: "Medium Laser", rear: true, omni: true}},
		{"Gauss Rifle (ARMORED)", slot{name: "Gauss Rifle", armored: true}},
		{"LRM 10 (T)", slot{name: "LRM 10", turret: true}},
		{"ISCommsGear:SIZE:3.0", slot{name: "ISCommsGear", size: 3}},
		{"  LRM 10 (OS)  ", slot{name: "LRM 10 (OS)"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlot(tt.raw))
		})
	}
}

func TestIsStructural(t *testing.T) {
	for _, name := range []string{"-Empty-", "Fusion Engine", "Gyro", "Hand Actuator", "Double Heat Sink", "Endo Steel", "Jump Jet", "CASE"} {
		assert.True(t, isStructural(name), name)
	}
	for _, name := range []string{"Medium Laser", "Mystery Widget", "PPC Capacitor"} {
		assert.False(t, isStructural(name), name)
	}
}

func TestLocationIndex(t *testing.T) {
	assert.Equal(t, LocHD, LocationIndex("Head"))
	assert.Equal(t, LocLA, LocationIndex("Front Left Leg"))
	assert.Equal(t, LocRL, LocationIndex("RRL"))
	assert.Equal(t, LocCL, LocationIndex("Center Leg"))
	assert.Equal(t, -1, LocationIndex("Turret"))
	assert.Equal(t, "CT", LocationAbbrev(LocCT))
	assert.Equal(t, "??", LocationAbbrev(42))
}

func TestAssemble(t *testing.T) {
	lo, err := Assemble(parseAwesome(t), equipment.Default(), game.Options{}, zerolog.Nop())
	require.NoError(t, err)
	u := lo.Unit

	assert.Equal(t, "Awesome AWS-8Q", u.Name())
	require.Equal(t, 16, u.Len())

	names := make([]string, 0, u.Len())
	for _, m := range u.Mounts() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{
		// HD, CT
		"Medium Laser", "Communications Equipment",
		// LT
		"PPC", "PPC Capacitor", "PPC Capacitor", "IS Ammo LRM-10", "Mystery Widget",
		// RT
		"PPC", "PPC", "PPC Capacitor", "PPC Capacitor",
		// LA
		"LRM 10", "IS Ammo LRM-10",
		// RA
		"Medium Laser", "Laser Insulator", "Medium Laser",
	}, names)

	t.Run("placement", func(t *testing.T) {
		assert.True(t, u.Mount(0).IsOmniPodMounted())
		assert.Equal(t, LocHD, u.Mount(0).Location())
		assert.True(t, u.Mount(15).IsRearMounted())
		assert.False(t, u.Mount(13).IsRearMounted())
		assert.Equal(t, 2.0, u.Mount(1).Size())
	})

	t.Run("unresolved", func(t *testing.T) {
		assert.False(t, u.Mount(6).IsResolved())
		require.Len(t, lo.Warnings, 1)
		assert.Contains(t, lo.Warnings[0], "Mystery Widget")
	})

	t.Run("ammo prefers same location", func(t *testing.T) {
		assert.Equal(t, mount.ID(12), u.Mount(11).LinkedID())
		assert.Equal(t, mount.ID(11), u.Mount(12).LinkedByID())
		assert.Equal(t, mount.NoID, u.Mount(5).LinkedByID())
	})

	t.Run("two capacitors on one PPC", func(t *testing.T) {
		ppc := u.Mount(2)
		assert.Equal(t, mount.ID(3), ppc.LinkedByID())
		assert.Equal(t, mount.ID(4), ppc.CrossLinkedByID())
		assert.Equal(t, mount.ID(2), u.Mount(3).LinkedID())
		assert.Equal(t, mount.ID(2), u.Mount(4).LinkedID())
	})

	t.Run("capacitors spread over PPCs", func(t *testing.T) {
		assert.Equal(t, mount.ID(9), u.Mount(8).LinkedByID())
		assert.Equal(t, mount.ID(10), u.Mount(7).LinkedByID())
		assert.Equal(t, mount.NoID, u.Mount(7).CrossLinkedByID())
	})

	t.Run("insulator", func(t *testing.T) {
		assert.Equal(t, mount.ID(13), u.Mount(14).LinkedID())
		assert.Equal(t, mount.ID(14), u.Mount(13).LinkedByID())
		assert.Equal(t, mount.NoID, u.Mount(15).LinkedByID())
	})

	t.Run("system mode", func(t *testing.T) {
		assert.True(t, u.Mount(1).CurMode().Is("ECCM"))
	})
}

func TestAssembleLinksAmmoAcrossLocations(t *testing.T) {
	data := &MTFData{
		Chassis: "Enforcer",
		Model:   "ENF-4R",
		LocationEquipment: map[string][]string{
			"Right Arm":  {"Autocannon/10", "Autocannon/10", "Autocannon/10", "Autocannon/10", "Autocannon/10", "Autocannon/10", "Autocannon/10"},
			"Left Torso": {"IS Ammo AC/10", "IS Ammo AC/10"},
			"Left Arm":   {"LRM 10 (OS)", "LRM 10 (OS)", "Gauss Rifle", "Gauss Rifle", "Gauss Rifle", "Gauss Rifle", "Gauss Rifle", "Gauss Rifle", "Gauss Rifle"},
		},
	}
	lo, err := Assemble(data, equipment.Default(), game.Options{}, zerolog.Nop())
	require.NoError(t, err)
	u := lo.Unit

	// LT bins come first, then LA, then RA.
	require.Equal(t, 5, u.Len())
	ac := u.Mount(4)
	require.Equal(t, "Autocannon/10", ac.Name())
	assert.Equal(t, mount.ID(0), ac.LinkedID())

	oneShot := u.Mount(2)
	assert.True(t, oneShot.IsOneShot())
	assert.Equal(t, mount.NoID, oneShot.LinkedID())

	require.Len(t, lo.Warnings, 1)
	assert.Contains(t, lo.Warnings[0], "no ammo for Gauss Rifle")
}

func TestAssembleWarnsOnOrphans(t *testing.T) {
	data := &MTFData{
		Chassis: "Test",
		LocationEquipment: map[string][]string{
			"Left Arm":     {"PPC Capacitor", "Laser Insulator"},
			"Center Torso": {"Null Signature System", "Null Signature System", "Null Signature System", "Null Signature System", "Null Signature System", "Null Signature System", "Null Signature System"},
		},
		SystemMode: map[string]string{
			"Null Signature System": "On",
			"Laser Insulator":       "Hot",
			"Warp Drive":            "Engage",
		},
	}
	lo, err := Assemble(data, equipment.Default(), game.Options{}, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, lo.Warnings, 4)
	nss := lo.Unit.Mount(0)
	require.Equal(t, "Null Signature System", nss.Name())
	assert.True(t, nss.CurMode().Is("Off"))
	assert.True(t, nss.PendingMode().Is("On"), "NSS switches at the round boundary")
}

func TestAssembleErrors(t *testing.T) {
	_, err := Assemble(nil, equipment.Default(), game.Options{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = Assemble(&MTFData{Chassis: "Empty"}, equipment.Default(), game.Options{}, zerolog.Nop())
	assert.Error(t, err)

	_, err = Assemble(&MTFData{Chassis: "Empty"}, nil, game.Options{}, zerolog.Nop())
	assert.Error(t, err)
}
