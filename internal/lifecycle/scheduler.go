// Package lifecycle drives the round and phase hooks of every registered
// unit in a fixed order: round start first, then each phase of the round in
// ascending order.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JustinWhittecar/mekmount/internal/game"
)

var (
	// ErrNoRound is returned when a phase is started before any round.
	ErrNoRound = errors.New("no round in progress")
	// ErrPhaseOrder is returned when a phase is invalid or does not follow
	// the previous one.
	ErrPhaseOrder = errors.New("phase out of order")
)

// Participant receives the lifecycle hooks. *unit.Unit implements it.
type Participant interface {
	Name() string
	OnRoundStart() game.RoundReport
	OnPhaseStart(game.Phase) game.PhaseReport
}

// Scheduler is not safe for concurrent use; the turn controller owns it.
type Scheduler struct {
	participants []Participant
	metrics      *Metrics
	log          zerolog.Logger

	round        int
	phase        game.Phase
	phaseStarted bool
}

func NewScheduler(metrics *Metrics, log zerolog.Logger) *Scheduler {
	return &Scheduler{metrics: metrics, log: log}
}

// Register adds p; participants are visited in registration order.
func (s *Scheduler) Register(p Participant) {
	s.participants = append(s.participants, p)
}

func (s *Scheduler) Participants() []Participant {
	return append([]Participant(nil), s.participants...)
}

// Round is the current round number, 0 before the first round.
func (s *Scheduler) Round() int { return s.round }

// Phase returns the phase in progress, if any.
func (s *Scheduler) Phase() (game.Phase, bool) { return s.phase, s.phaseStarted }

// StartRound begins the next round on every participant.
func (s *Scheduler) StartRound() game.RoundReport {
	s.round++
	s.phaseStarted = false

	var total game.RoundReport
	for _, p := range s.participants {
		total.Add(p.OnRoundStart())
	}
	s.metrics.observeRound(total)
	s.log.Debug().
		Int("round", s.round).
		Int("modes_committed", total.ModesCommitted).
		Int("bins_dumped", total.BinsDumped).
		Msg("round started")
	return total
}

// StartPhase begins phase on every participant. Phases must run in
// ascending order within a round.
func (s *Scheduler) StartPhase(phase game.Phase) (game.PhaseReport, error) {
	if s.round == 0 {
		return game.PhaseReport{}, ErrNoRound
	}
	if !phase.Valid() {
		return game.PhaseReport{}, fmt.Errorf("%w: %s", ErrPhaseOrder, phase)
	}
	if s.phaseStarted && phase <= s.phase {
		return game.PhaseReport{}, fmt.Errorf("%w: %s after %s", ErrPhaseOrder, phase, s.phase)
	}
	s.phase = phase
	s.phaseStarted = true

	var total game.PhaseReport
	for _, p := range s.participants {
		total.Add(p.OnPhaseStart(phase))
	}
	s.metrics.observePhase(phase, total)
	s.log.Debug().
		Int("round", s.round).
		Stringer("phase", phase).
		Int("jams_revealed", total.JamsRevealed).
		Msg("phase started")
	return total, nil
}

// RunRound starts a round and then each given phase, or every phase when
// none are given.
func (s *Scheduler) RunRound(phases ...game.Phase) error {
	if len(phases) == 0 {
		for p := game.PhaseInitiative; p <= game.PhaseEnd; p++ {
			phases = append(phases, p)
		}
	}
	s.StartRound()
	for _, p := range phases {
		if _, err := s.StartPhase(p); err != nil {
			return fmt.Errorf("round %d: %w", s.round, err)
		}
	}
	return nil
}
