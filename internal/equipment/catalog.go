// Package equipment holds the static equipment catalog: per-type rules data
// loaded once from YAML and shared read-only by every mount.
package equipment

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/JustinWhittecar/mekmount/internal/modes"
)

// ErrUnknownType is returned when a name does not resolve to a catalog entry.
var ErrUnknownType = errors.New("unknown equipment type")

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type typeDef struct {
	Name              string   `yaml:"name"`
	InternalName      string   `yaml:"internal_name"`
	Aliases           []string `yaml:"aliases"`
	Kind              string   `yaml:"kind"`
	Flags             []string `yaml:"flags"`
	Heat              int      `yaml:"heat"`
	Damage            int      `yaml:"damage"`
	RackSize          int      `yaml:"rack_size"`
	Tonnage           float64  `yaml:"tonnage"`
	CriticalSlots     int      `yaml:"critical_slots"`
	VariableSize      bool     `yaml:"variable_size"`
	AmmoType          string   `yaml:"ammo_type"`
	Shots             int      `yaml:"shots"`
	DamagePerShot     int      `yaml:"damage_per_shot"`
	ExplosionDamage   int      `yaml:"explosion_damage"`
	Munitions         []string `yaml:"munitions"`
	Modes             []string `yaml:"modes"`
	InstantModeSwitch bool     `yaml:"instant_mode_switch"`
	NextTurnModes     []string `yaml:"next_turn_modes"`
}

type catalogFile struct {
	Equipment []typeDef `yaml:"equipment"`
}

// build validates the definition and converts it to an immutable Type.
func (d *typeDef) build() (*Type, error) {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	kind, err := ParseKind(d.Kind)
	if err != nil {
		errs = append(errs, err)
	}
	t := &Type{
		Name:              d.Name,
		InternalName:      d.InternalName,
		Kind:              kind,
		Heat:              d.Heat,
		Damage:            d.Damage,
		RackSize:          d.RackSize,
		Tonnage:           d.Tonnage,
		CriticalSlots:     d.CriticalSlots,
		VariableSize:      d.VariableSize,
		AmmoType:          d.AmmoType,
		ShotsPerTon:       d.Shots,
		DamagePerShot:     d.DamagePerShot,
		ExplosionDamage:   d.ExplosionDamage,
		InstantModeSwitch: d.InstantModeSwitch,
		aliases:           append([]string(nil), d.Aliases...),
	}
	if t.InternalName == "" {
		t.InternalName = t.Name
	}
	for _, fs := range d.Flags {
		f, err := ParseFlag(fs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.flags.Set(uint(f))
	}
	for _, ms := range d.Munitions {
		m, ok := munitionNames[ms]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown munition %q", ms))
			continue
		}
		t.munitions |= m
	}
	seen := map[string]bool{}
	for _, name := range d.Modes {
		if name == "" {
			errs = append(errs, errors.New("mode name must not be empty"))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("duplicate mode %q", name))
			continue
		}
		seen[name] = true
		t.modes = append(t.modes, modes.Get(name))
	}
	if len(d.NextTurnModes) > 0 {
		t.nextTurn = make(map[string]bool, len(d.NextTurnModes))
		for _, name := range d.NextTurnModes {
			if !seen[name] {
				errs = append(errs, fmt.Errorf("next-turn mode %q is not one of the type's modes", name))
			}
			t.nextTurn[name] = true
		}
	}
	if kind == KindAmmo {
		if d.AmmoType == "" {
			errs = append(errs, errors.New("ammo must declare ammo_type"))
		}
		if d.Shots <= 0 {
			errs = append(errs, errors.New("ammo shots must be > 0"))
		}
	}
	if d.Tonnage < 0 {
		errs = append(errs, errors.New("tonnage must be >= 0"))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("equipment %q: %w", d.Name, errors.Join(errs...))
	}
	return t, nil
}

// ─── Catalog ────────────────────────────────────────────────────────────────

// Catalog resolves equipment names (display, internal or alias) to types.
type Catalog struct {
	types []*Type
	byKey map[string]*Type
}

// Parse builds a catalog from YAML. All definition errors are reported together.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byKey: make(map[string]*Type)}
	var errs []error
	for i := range f.Equipment {
		t, err := f.Equipment[i].build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := c.add(t); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}
	return c, nil
}

// LoadFile reads and parses a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("equipment: embedded catalog is invalid: %v", err))
	}
	return c
})

// Default returns the catalog embedded in the binary.
func Default() *Catalog { return defaultCatalog() }

func (c *Catalog) add(t *Type) error {
	keys := append([]string{t.Name, t.InternalName}, t.aliases...)
	for _, k := range keys {
		nk := normalizeName(k)
		if nk == "" {
			continue
		}
		if prev, ok := c.byKey[nk]; ok && prev != t {
			return fmt.Errorf("equipment %q: name %q already used by %q", t.Name, k, prev.Name)
		}
	}
	for _, k := range keys {
		if nk := normalizeName(k); nk != "" {
			c.byKey[nk] = t
		}
	}
	c.types = append(c.types, t)
	return nil
}

// Lookup resolves a name, ignoring case and punctuation.
func (c *Catalog) Lookup(name string) (*Type, bool) {
	t, ok := c.byKey[normalizeName(name)]
	return t, ok
}

// Get is Lookup with an ErrUnknownType error on a miss.
func (c *Catalog) Get(name string) (*Type, error) {
	if t, ok := c.Lookup(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Types returns every type in definition order.
func (c *Catalog) Types() []*Type { return append([]*Type(nil), c.types...) }

func (c *Catalog) Len() int { return len(c.types) }

var nameReplacer = strings.NewReplacer(" ", "", "-", "", "/", "", "_", "", ".", "")

// normalizeName maps "IS Ammo AC/10", "is ammo ac-10" and "ISAmmoAC10" to
// the same key.
func normalizeName(s string) string {
	return nameReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}
