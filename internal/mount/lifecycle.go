package mount

import (
	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
)

// RoundResult reports what NewRound changed.
type RoundResult struct {
	ModeCommitted bool
	// Dumped is set when a dumping bin was emptied.
	Dumped bool
}

// PhaseResult reports what NewPhase changed.
type PhaseResult struct {
	JamRevealed bool
	ModeReset   bool
}

// NewRound resets per-round state and commits a staged mode. It must run
// before the first NewPhase of the round.
func (m *Mount) NewRound() RoundResult {
	var res RoundResult
	m.usedThisRound = false
	switch p := m.payload.(type) {
	case *WeaponState:
		p.AMSUsed = false
		p.CalledShot = CalledNone
	case *AmmoState:
		if p.Dumping {
			m.shotsLeft = 0
			p.Dumping = false
			res.Dumped = true
		}
		if p.PendingDump {
			p.PendingDump = false
			p.Dumping = true
		}
	}
	res.ModeCommitted = m.commitMode()
	return res
}

// NewPhase reveals a jam recorded during the previous phase. With
// ShieldsResetEachPhase, moded shields fall back to their first mode. The
// pending mode is left alone.
func (m *Mount) NewPhase(phase game.Phase, opts game.Options) PhaseResult {
	var res PhaseResult
	if m.jammedThisPhase && !m.jammed {
		res.JamRevealed = true
	}
	m.jammed = m.jammedThisPhase
	if opts.ShieldsResetEachPhase && m.hasFlag(equipment.FlagShield) && m.HasModes() && m.mode != 0 {
		m.mode = 0
		res.ModeReset = true
	}
	return res
}
