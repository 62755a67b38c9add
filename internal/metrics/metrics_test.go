package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew_UnregisteredByDefault(t *testing.T) {
	// Two sets without a registerer must not collide.
	a := New(nil)
	b := New(nil)

	a.SentTotal.WithLabelValues("api:run").Inc()

	require.InDelta(t, 1, testutil.ToFloat64(a.SentTotal.WithLabelValues("api:run")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(b.SentTotal.WithLabelValues("api:run")), 0)
}

func TestNew_RegistersWithRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RepliesTotal.WithLabelValues(FamilyConsole, OutcomeOK).Inc()
	m.Pending.WithLabelValues(FamilyPointer).Set(2)

	count, err := testutil.GatherAndCount(reg, "valu_replies_total", "valu_pending_requests")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestNew_SharedRegisterer(t *testing.T) {
	reg := prometheus.NewRegistry()

	a := New(reg)

	var b *Metrics

	require.NotPanics(t, func() { b = New(reg) })

	a.SentTotal.WithLabelValues("api:run").Inc()
	b.SentTotal.WithLabelValues("api:run").Inc()
	a.Pending.WithLabelValues(FamilyConsole).Inc()
	b.Pending.WithLabelValues(FamilyConsole).Inc()
	b.Pending.WithLabelValues(FamilyConsole).Dec()

	require.InDelta(t, 2, testutil.ToFloat64(a.SentTotal.WithLabelValues("api:run")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(a.Pending.WithLabelValues(FamilyConsole)), 0)

	count, err := testutil.GatherAndCount(reg, "valu_messages_sent_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestNew_ConflictingCollectorLeftUnregistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "valu_pending_requests",
		Help: "Something else entirely.",
	}, []string{"queue"}))

	var m *Metrics

	require.NotPanics(t, func() { m = New(reg) })

	m.Pending.WithLabelValues(FamilyIntent).Inc()
	require.InDelta(t, 1, testutil.ToFloat64(m.Pending.WithLabelValues(FamilyIntent)), 0)
}

func TestOutcome(t *testing.T) {
	require.Equal(t, OutcomeError, Outcome(true))
	require.Equal(t, OutcomeOK, Outcome(false))
}
