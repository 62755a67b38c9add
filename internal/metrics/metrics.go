// Package metrics provides Prometheus metrics for the host channel.
//
// Labels are limited to message kinds and request families; request ids and
// module guids never appear in labels.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Request families, used as the "family" label.
const (
	FamilyPointer    = "pointer"
	FamilyIntent     = "intent"
	FamilyConsole    = "console"
	FamilyInvocation = "invocation"

	// FamilyEvent labels module events addressed to an unknown handle.
	FamilyEvent = "event"
)

// Reply outcomes, used as the "outcome" label.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors of one client. Clients registered with the
// same registerer share collectors, so Pending is only ever moved by deltas.
type Metrics struct {
	// SentTotal counts outbound messages by kind.
	SentTotal *prometheus.CounterVec

	// RepliesTotal counts settled replies by family and outcome.
	RepliesTotal *prometheus.CounterVec

	// UnroutableTotal counts replies whose request id was not pending, by
	// family.
	UnroutableTotal *prometheus.CounterVec

	// DroppedTotal counts inbound frames dropped before routing, by reason.
	DroppedTotal *prometheus.CounterVec

	// Pending tracks outstanding requests by family.
	Pending *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered. When reg already holds an identical collector, from
// another client in the same process, that collector is reused.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SentTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valu_messages_sent_total",
			Help: "Total number of messages posted to the host, by kind.",
		}, []string{"kind"})),
		RepliesTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valu_replies_total",
			Help: "Total number of replies settled, by request family and outcome.",
		}, []string{"family", "outcome"})),
		UnroutableTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valu_unroutable_replies_total",
			Help: "Total number of replies dropped because no request was pending, by request family.",
		}, []string{"family"})),
		DroppedTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valu_frames_dropped_total",
			Help: "Total number of inbound frames dropped before routing, by reason.",
		}, []string{"reason"})),
		Pending: register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "valu_pending_requests",
			Help: "Current number of requests awaiting a reply, by request family.",
		}, []string{"family"})),
	}
}

// register adds c to reg, or returns the collector reg already holds under
// the same descriptor. A collector that conflicts with a different existing
// one is left unregistered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}

	err := reg.Register(c)
	if err == nil {
		return c
	}

	if already, ok := errors.AsType[prometheus.AlreadyRegisteredError](err); ok {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}

	return c
}

// Outcome maps a reply failure flag to an outcome label.
func Outcome(failed bool) string {
	if failed {
		return OutcomeError
	}

	return OutcomeOK
}
