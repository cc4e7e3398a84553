package mount

import "github.com/JustinWhittecar/mekmount/internal/modes"

func (m *Mount) HasModes() bool { return m.typ != nil && m.typ.HasModes() }

// CurMode returns the committed mode, or modes.None.
func (m *Mount) CurMode() *modes.Mode {
	if m.typ == nil {
		return modes.None
	}
	return m.typ.Mode(m.mode)
}

// PendingMode returns the mode staged for the next round, or modes.None.
func (m *Mount) PendingMode() *modes.Mode {
	if m.typ == nil || m.pendingMode < 0 {
		return modes.None
	}
	return m.typ.Mode(m.pendingMode)
}

func (m *Mount) ModeIndex() int        { return m.mode }
func (m *Mount) PendingModeIndex() int { return m.pendingMode }

func (m *Mount) IsModeSwitchable() bool   { return m.modeSwitchable }
func (m *Mount) SetModeSwitchable(v bool) { m.modeSwitchable = v }

// SwitchMode steps the pending mode (or the current one when nothing is
// pending) one position forward or back and applies it with SetMode. It
// returns the new index, or -1 when the mount has no modes to switch.
func (m *Mount) SwitchMode(forward bool) int {
	if !m.HasModes() || !m.modeSwitchable {
		return -1
	}
	n := m.typ.ModeCount()
	from := m.mode
	if m.pendingMode >= 0 {
		from = m.pendingMode
	}
	next := from + 1
	if !forward {
		next = from - 1
	}
	next = ((next % n) + n) % n
	m.SetMode(next)
	return next
}

// SetMode selects mode index. The change is immediate when the type allows
// instant switching between the two mode names; otherwise it waits for the
// next round. Selecting the current mode cancels any pending change.
func (m *Mount) SetMode(index int) bool {
	if !m.HasModes() || index < 0 || index >= m.typ.ModeCount() {
		return false
	}
	if index == m.mode {
		m.pendingMode = -1
		return true
	}
	from := m.typ.Mode(m.mode).Name()
	to := m.typ.Mode(index).Name()
	if m.typ.CanSwitchInstantly(from, to) {
		m.mode = index
		m.pendingMode = -1
		return true
	}
	m.pendingMode = index
	return true
}

// SetModeByName is SetMode addressed by mode name.
func (m *Mount) SetModeByName(name string) bool {
	if !m.HasModes() {
		return false
	}
	return m.SetMode(m.typ.ModeIndex(name))
}

// commitMode resolves a staged mode. It reports whether anything changed.
func (m *Mount) commitMode() bool {
	if m.pendingMode < 0 {
		return false
	}
	m.mode = m.pendingMode
	m.pendingMode = -1
	return true
}
