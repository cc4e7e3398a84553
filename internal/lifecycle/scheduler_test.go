package lifecycle

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinWhittecar/mekmount/internal/equipment"
	"github.com/JustinWhittecar/mekmount/internal/game"
	"github.com/JustinWhittecar/mekmount/internal/modes"
	"github.com/JustinWhittecar/mekmount/internal/unit"
)

type recorder struct {
	name  string
	calls *[]string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnRoundStart() game.RoundReport {
	*r.calls = append(*r.calls, r.name+":round")
	return game.RoundReport{ModesCommitted: 1}
}

func (r *recorder) OnPhaseStart(p game.Phase) game.PhaseReport {
	*r.calls = append(*r.calls, r.name+":"+p.String())
	return game.PhaseReport{}
}

func newMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestSchedulerOrder(t *testing.T) {
	var calls []string
	s := NewScheduler(nil, zerolog.Nop())
	s.Register(&recorder{name: "a", calls: &calls})
	s.Register(&recorder{name: "b", calls: &calls})

	require.NoError(t, s.RunRound(game.PhaseMovement, game.PhaseFiring))
	assert.Equal(t, []string{
		"a:round", "b:round",
		"a:movement", "b:movement",
		"a:firing", "b:firing",
	}, calls)
	assert.Equal(t, 1, s.Round())
	p, ok := s.Phase()
	assert.True(t, ok)
	assert.Equal(t, game.PhaseFiring, p)
	assert.Len(t, s.Participants(), 2)
}

func TestSchedulerPhaseErrors(t *testing.T) {
	s := NewScheduler(nil, zerolog.Nop())

	_, err := s.StartPhase(game.PhaseMovement)
	assert.ErrorIs(t, err, ErrNoRound)

	rep := s.StartRound()
	assert.Equal(t, game.RoundReport{}, rep)

	_, err = s.StartPhase(game.Phase(99))
	assert.ErrorIs(t, err, ErrPhaseOrder)

	_, err = s.StartPhase(game.PhaseFiring)
	require.NoError(t, err)
	_, err = s.StartPhase(game.PhaseMovement)
	assert.ErrorIs(t, err, ErrPhaseOrder)
	_, err = s.StartPhase(game.PhaseFiring)
	assert.ErrorIs(t, err, ErrPhaseOrder, "a phase cannot start twice")

	s.StartRound()
	_, err = s.StartPhase(game.PhaseMovement)
	assert.NoError(t, err, "a new round resets phase ordering")
}

func TestRunRoundAllPhases(t *testing.T) {
	var calls []string
	s := NewScheduler(nil, zerolog.Nop())
	s.Register(&recorder{name: "u", calls: &calls})
	require.NoError(t, s.RunRound())
	assert.Len(t, calls, 1+int(game.PhaseEnd)+1)
	assert.Equal(t, "u:end", calls[len(calls)-1])
}

func TestSchedulerDrivesUnits(t *testing.T) {
	metrics := newMetrics(t)
	s := NewScheduler(metrics, zerolog.Nop())

	cat := equipment.Default()
	nssType, err := cat.Get("Null Signature System")
	require.NoError(t, err)
	acType, err := cat.Get("Autocannon/10")
	require.NoError(t, err)
	ammoType, err := cat.Get("IS Ammo AC/10")
	require.NoError(t, err)

	u := unit.New("Cicada", game.Options{}, zerolog.Nop())
	nss := u.Add(nssType, 1)
	ac := u.Add(acType, 2)
	ammo := u.Add(ammoType, 2)
	u.SetLinked(ac.ID(), ammo.ID())
	s.Register(u)

	nss.SetModeByName(modes.On)
	ammo.SetPendingDump(true)
	require.NoError(t, s.RunRound(game.PhaseMovement, game.PhaseFiring))
	assert.True(t, nss.CurMode().Is(modes.On))

	ac.SetJammed(true)
	_, err = s.StartPhase(game.PhasePhysical)
	require.NoError(t, err)
	assert.True(t, ac.IsJammed())

	require.NoError(t, s.RunRound(game.PhaseMovement))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RoundsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ModesCommitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JamsRevealed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BinsDumped))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PhasesStarted.WithLabelValues("movement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PhasesStarted.WithLabelValues("physical")))
	assert.Equal(t, 0, ammo.BaseShotsLeft())
}

func TestNewMetricsReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := NewMetrics(reg)
	require.NoError(t, err)
	m2, err := NewMetrics(reg)
	require.NoError(t, err)

	m1.RoundsStarted.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m2.RoundsStarted))
	assert.Same(t, m1.PhasesStarted, m2.PhasesStarted)
	assert.Equal(t, reg, m1.Gatherer())

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, count, "vectors without children are not gathered")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.Nil(t, m.Gatherer())
	m.observeRound(game.RoundReport{ModesCommitted: 3})
	m.observePhase(game.PhaseEnd, game.PhaseReport{})
}
