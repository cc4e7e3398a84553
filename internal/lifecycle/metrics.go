package lifecycle

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JustinWhittecar/mekmount/internal/game"
)

// Metrics exposes lifecycle counters. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	RoundsStarted  prometheus.Counter
	PhasesStarted  *prometheus.CounterVec
	ModesCommitted prometheus.Counter
	ModesReset     prometheus.Counter
	JamsRevealed   prometheus.Counter
	BinsDumped     prometheus.Counter
}

// NewMetrics registers the lifecycle metrics against reg, or the default
// registerer when reg is nil. Registering twice on the same registry reuses
// the existing collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{gatherer: gatherer}
	var err error
	if m.RoundsStarted, err = registerCounter(reg, "mekmount_rounds_started_total", "Rounds started by the lifecycle scheduler."); err != nil {
		return nil, err
	}
	if m.ModesCommitted, err = registerCounter(reg, "mekmount_modes_committed_total", "Pending mount modes committed at a round boundary."); err != nil {
		return nil, err
	}
	if m.ModesReset, err = registerCounter(reg, "mekmount_modes_reset_total", "Mount modes reset to their default at a phase boundary."); err != nil {
		return nil, err
	}
	if m.JamsRevealed, err = registerCounter(reg, "mekmount_jams_revealed_total", "Weapon jams that became visible at a phase boundary."); err != nil {
		return nil, err
	}
	if m.BinsDumped, err = registerCounter(reg, "mekmount_ammo_bins_dumped_total", "Ammunition bins emptied by dumping."); err != nil {
		return nil, err
	}

	phases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mekmount_phases_started_total",
		Help: "Phases started by the lifecycle scheduler.",
	}, []string{"phase"})
	if err := reg.Register(phases); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector mekmount_phases_started_total already registered with incompatible type")
		}
		phases = existing
	}
	m.PhasesStarted = phases
	return m, nil
}

// Gatherer returns the gatherer backing the registry the metrics live in.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

func (m *Metrics) observeRound(rep game.RoundReport) {
	if m == nil {
		return
	}
	m.RoundsStarted.Inc()
	m.ModesCommitted.Add(float64(rep.ModesCommitted))
	m.BinsDumped.Add(float64(rep.BinsDumped))
}

func (m *Metrics) observePhase(p game.Phase, rep game.PhaseReport) {
	if m == nil {
		return
	}
	m.PhasesStarted.WithLabelValues(p.String()).Inc()
	m.JamsRevealed.Add(float64(rep.JamsRevealed))
	m.ModesReset.Add(float64(rep.ModesReset))
}

func registerCounter(reg prometheus.Registerer, name, help string) (prometheus.Counter, error) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
