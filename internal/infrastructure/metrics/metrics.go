package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the service counters. A nil *Collector is valid and records nothing.
type Collector struct {
	swipes         *prometheus.CounterVec
	matches        *prometheus.CounterVec
	messages       *prometheus.CounterVec
	forwards       *prometheus.CounterVec
	blockToggles   *prometheus.CounterVec
	activeSessions prometheus.Gauge
	sessionTotal   prometheus.Counter
}

// New registers the collectors on reg, falling back to the default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Collector{
		swipes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmate_swipes_total",
			Help: "Swipe decisions grouped by decision and outcome.",
		}, []string{"decision", "result"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmate_matches_total",
			Help: "Match creation attempts after reciprocity, by outcome.",
		}, []string{"result"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmate_messages_total",
			Help: "Relay send attempts grouped by outcome.",
		}, []string{"result"}),
		forwards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmate_forwards_total",
			Help: "Persisted messages by live delivery outcome.",
		}, []string{"outcome"}),
		blockToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchmate_block_toggles_total",
			Help: "Block state transitions grouped by resulting state and actor kind.",
		}, []string{"state", "actor"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchmate_sessions_active",
			Help: "Users currently reachable on a live connection.",
		}),
		sessionTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchmate_sessions_total",
			Help: "Live connections registered since start.",
		}),
	}

	reg.MustRegister(
		m.swipes,
		m.matches,
		m.messages,
		m.forwards,
		m.blockToggles,
		m.activeSessions,
		m.sessionTotal,
	)
	return m
}

func (m *Collector) RecordSwipe(decision, result string) {
	if m == nil {
		return
	}
	m.swipes.WithLabelValues(decision, result).Inc()
}

func (m *Collector) RecordMatch(result string) {
	if m == nil {
		return
	}
	m.matches.WithLabelValues(result).Inc()
}

func (m *Collector) RecordMessage(result string) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(result).Inc()
}

func (m *Collector) RecordForward(delivered bool) {
	if m == nil {
		return
	}
	outcome := "offline"
	if delivered {
		outcome = "delivered"
	}
	m.forwards.WithLabelValues(outcome).Inc()
}

func (m *Collector) RecordBlockToggle(blocked, caretaker bool) {
	if m == nil {
		return
	}
	state, actor := "open", "user"
	if blocked {
		state = "blocked"
	}
	if caretaker {
		actor = "caretaker"
	}
	m.blockToggles.WithLabelValues(state, actor).Inc()
}

// SetActiveSessions publishes the presence registry size.
func (m *Collector) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *Collector) IncSessions() {
	if m == nil {
		return
	}
	m.sessionTotal.Inc()
}
