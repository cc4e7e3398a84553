package game

import "fmt"

// Phase is a step of a game round. Phases run in declaration order.
type Phase int

const (
	PhaseInitiative Phase = iota
	PhaseDeployment
	PhaseMovement
	PhaseOffboard
	PhaseFiring
	PhasePhysical
	PhaseEnd
)

var phaseNames = [...]string{"initiative", "deployment", "movement", "offboard", "firing", "physical", "end"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) Valid() bool {
	return p >= PhaseInitiative && p <= PhaseEnd
}

// ParsePhase maps a lowercase phase name back to its Phase.
func ParsePhase(s string) (Phase, error) {
	for i, n := range phaseNames {
		if n == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// Options are the optional rules that change lifecycle behaviour.
type Options struct {
	// ShieldsResetEachPhase returns moded shields to their default mode at
	// the start of every phase.
	ShieldsResetEachPhase bool `mapstructure:"shieldsResetEachPhase" json:"shieldsResetEachPhase"`
}
