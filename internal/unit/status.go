package unit

// MountStatus is a read-only summary of one mount for reporting.
type MountStatus struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Location    int    `json:"location"`
	Resolved    bool   `json:"resolved"`
	Operable    bool   `json:"operable"`
	Ready       bool   `json:"ready"`
	CanFire     bool   `json:"canFire"`
	Crippled    bool   `json:"crippled"`
	Jammed      bool   `json:"jammed"`
	Mode        string `json:"mode,omitempty"`
	PendingMode string `json:"pendingMode,omitempty"`
	ShotsLeft   int    `json:"shotsLeft"`
	UsableShots int    `json:"usableShots"`
	Heat        int    `json:"heat"`
	Explosion   int    `json:"explosionDamage"`
	Linked      int    `json:"linked"`
	LinkedBy    int    `json:"linkedBy"`
}

// Status summarizes every mount in stored order.
func (u *Unit) Status() []MountStatus {
	out := make([]MountStatus, 0, u.mounts.Len())
	for _, m := range u.mounts.All() {
		st := MountStatus{
			ID:          int(m.ID()),
			Name:        m.Name(),
			Location:    m.Location(),
			Resolved:    m.IsResolved(),
			Operable:    m.IsOperable(),
			Ready:       m.IsReady(false, false),
			CanFire:     m.CanFire(u, false, false, false),
			Crippled:    m.IsCrippled(u.mounts),
			Jammed:      m.IsJammed(),
			ShotsLeft:   m.BaseShotsLeft(),
			UsableShots: m.UsableShotsLeft(),
			Heat:        m.CurrentHeat(u.mounts),
			Explosion:   m.ExplosionDamage(u.mounts),
			Linked:      int(m.LinkedID()),
			LinkedBy:    int(m.LinkedByID()),
		}
		if k, ok := m.Kind(); ok {
			st.Kind = k.String()
		}
		if m.HasModes() {
			st.Mode = m.CurMode().Name()
			if p := m.PendingMode(); p != nil && p.ID() >= 0 {
				st.PendingMode = p.Name()
			}
		}
		out = append(out, st)
	}
	return out
}
