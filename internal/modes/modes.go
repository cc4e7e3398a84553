// Package modes interns equipment mode names. Every distinct name maps to one
// immutable *Mode handle for the life of the process, so mounts compare modes
// by identity and never carry duplicate strings.
package modes

import (
	"strconv"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Well-known mode names the engine itself inspects.
const (
	Charge  = "Charge"
	HotLoad = "HotLoad"
	Ultra   = "Ultra"
	Single  = "Single"
	Off     = "Off"
	On      = "On"
)

// Mode is an interned mode name.
type Mode struct {
	id   int
	name string
}

// None is returned wherever no mode applies. It is never stored in a registry.
var None = &Mode{id: -1, name: "None"}

func (m *Mode) Name() string { return m.name }

// ID is the registration order within the owning registry, -1 for None.
func (m *Mode) ID() int { return m.id }

func (m *Mode) String() string { return m.name }

// Is reports whether m is the mode called name. None matches nothing.
func (m *Mode) Is(name string) bool {
	return m != nil && m != None && m.name == name
}

// Registry is an append-only, concurrency-safe set of modes keyed by name.
type Registry struct {
	modes cmap.ConcurrentMap[string, *Mode]
	next  atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{modes: cmap.New[*Mode]()}
}

// Get returns the handle for name, creating it on first use.
func (r *Registry) Get(name string) *Mode {
	if m, ok := r.modes.Get(name); ok {
		return m
	}
	return r.modes.Upsert(name, nil, func(exist bool, inMap *Mode, _ *Mode) *Mode {
		if exist {
			return inMap
		}
		return &Mode{id: int(r.next.Add(1) - 1), name: name}
	})
}

// Lookup returns the handle for name without creating it.
func (r *Registry) Lookup(name string) (*Mode, bool) {
	return r.modes.Get(name)
}

func (r *Registry) Len() int { return r.modes.Count() }

var global = NewRegistry()

// Get interns name in the process-wide registry.
func Get(name string) *Mode { return global.Get(name) }

// Lookup reads the process-wide registry without creating entries.
func Lookup(name string) (*Mode, bool) { return global.Lookup(name) }

// RotaryShots returns the mode name used by rotary autocannons for an n-shot burst.
func RotaryShots(n int) string {
	return strconv.Itoa(n) + "-shot"
}
