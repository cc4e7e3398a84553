package mount

import "github.com/JustinWhittecar/mekmount/internal/equipment"

// Resolver maps link IDs back to mounts. Mount returns nil for NoID or an ID
// outside the arena.
type Resolver interface {
	Mount(id ID) *Mount
}

// List is the arena owning every mount of one unit. IDs are positions in the
// list and never change once assigned.
type List struct {
	mounts []*Mount
}

func NewList() *List { return &List{} }

// Add appends m and assigns its ID.
func (l *List) Add(m *Mount) ID {
	m.id = ID(len(l.mounts))
	l.mounts = append(l.mounts, m)
	return m.id
}

func (l *List) Mount(id ID) *Mount {
	if l == nil || id < 0 || int(id) >= len(l.mounts) {
		return nil
	}
	return l.mounts[id]
}

func (l *List) Len() int { return len(l.mounts) }

// All returns the mounts in stored order. The slice is a copy; the mounts are not.
func (l *List) All() []*Mount { return append([]*Mount(nil), l.mounts...) }

// SetLinked points a's forward link at b and makes b's back-link a. The old
// target of a keeps its back-link. Passing NoID for b clears the forward
// link only. When a is a detachable weapon pack or an anti-personnel mount,
// b is marked as carried in it.
func (l *List) SetLinked(a, b ID) bool {
	ma := l.Mount(a)
	if ma == nil {
		return false
	}
	if b == NoID {
		ma.linked = NoID
		return true
	}
	mb := l.Mount(b)
	if mb == nil {
		return false
	}
	ma.linked = b
	mb.linkedBy = a
	switch {
	case ma.hasFlag(equipment.FlagDWP):
		mb.dwpMounted = true
	case ma.hasFlag(equipment.FlagAPM):
		mb.apmMounted = true
	}
	return true
}

// SetLinkedBy records linker as target's back-link, but only when linker's
// forward link really is target.
func (l *List) SetLinkedBy(target, linker ID) bool {
	mt, ml := l.Mount(target), l.Mount(linker)
	if mt == nil || ml == nil || ml.linked != target {
		return false
	}
	mt.linkedBy = linker
	return true
}

// SetCrossLinkedBy is SetLinkedBy for the secondary back-link.
func (l *List) SetCrossLinkedBy(target, linker ID) bool {
	mt, ml := l.Mount(target), l.Mount(linker)
	if mt == nil || ml == nil || ml.linked != target {
		return false
	}
	mt.crossLinkedBy = linker
	return true
}

// Linked follows m's forward link.
func (l *List) Linked(m *Mount) *Mount { return l.Mount(m.linked) }

// LinkedBy follows m's back-link.
func (l *List) LinkedBy(m *Mount) *Mount { return l.Mount(m.linkedBy) }

// Clone copies every record. Links are IDs, so they carry over unchanged
// and resolve inside the copy.
func (l *List) Clone() *List {
	c := &List{mounts: make([]*Mount, len(l.mounts))}
	for i, m := range l.mounts {
		cp := *m
		if m.payload != nil {
			cp.payload = m.payload.clone()
		}
		c.mounts[i] = &cp
	}
	return c
}
