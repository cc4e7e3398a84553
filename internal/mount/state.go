package mount

// Host is the status of the unit carrying a mount, as far as firing cares.
type Host interface {
	IsShutDown() bool
	CrewActive() bool
	// SwarmAttacker returns the unit swarming this host, or nil.
	SwarmAttacker() Host
}

// IsOperable reports whether the mount still functions at all. Unresolved
// mounts never do.
func (m *Mount) IsOperable() bool {
	return m.typ != nil && !m.destroyed && !m.missing && !m.useless
}

func (m *Mount) IsInoperable() bool { return !m.IsOperable() }

// IsReady reports whether the mount may be used now. A weapon on a detachable
// weapon pack is only ready while the pack holds it.
func (m *Mount) IsReady(isStrafing, evenIfAlreadyFired bool) bool {
	if m.typ == nil {
		return false
	}
	return (!m.usedThisRound || evenIfAlreadyFired || isStrafing) &&
		!m.destroyed &&
		!m.missing &&
		!m.jammed &&
		!m.useless &&
		!m.fired &&
		(!m.dwpMounted || m.linkedBy != NoID)
}

// CanFire is IsReady plus the host's ability to act. With considerSwarm set
// and a swarm attacker present, the attacker's crew decides instead. A mount
// without a host cannot fire.
func (m *Mount) CanFire(h Host, considerSwarm, isStrafing, evenIfAlreadyFired bool) bool {
	if h == nil {
		return false
	}
	if considerSwarm {
		if s := h.SwarmAttacker(); s != nil {
			if !s.CrewActive() {
				return false
			}
			return m.IsReady(isStrafing, evenIfAlreadyFired)
		}
	}
	if h.IsShutDown() || !h.CrewActive() {
		return false
	}
	return m.IsReady(isStrafing, evenIfAlreadyFired)
}

// IsCrippled reports whether the mount no longer contributes to the unit's
// fighting strength.
func (m *Mount) IsCrippled(r Resolver) bool {
	if m.typ == nil {
		return true
	}
	if m.destroyed || m.jammed || m.missing || m.useless || m.fired {
		return true
	}
	// One-shot launchers carry their own round; fired alone marks them spent.
	if m.typ.IsAmmoFed() && !m.oneShot {
		ammo := resolve(r, m.linked)
		if ammo == nil || ammo.UsableShotsLeft() < 1 {
			return true
		}
	}
	return m.dwpMounted && m.linkedBy != NoID
}
