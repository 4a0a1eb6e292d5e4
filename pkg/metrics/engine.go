package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "foodcart"

// EngineMetrics counts intent outcomes handled by the cart engine.
type EngineMetrics struct {
	mutations   *prometheus.CounterVec
	promos      *prometheus.CounterVec
	submissions *prometheus.CounterVec
	saves       *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Cart and catalog intents by operation and outcome.",
	}, []string{"op", "outcome"})
	promos := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "promo_validations_total",
		Help:      "Promo code applications by outcome.",
	}, []string{"outcome"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_submissions_total",
		Help:      "Order submissions by outcome.",
	}, []string{"outcome"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_saves_total",
		Help:      "Snapshot writes by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(mutations, promos, submissions, saves)
	return &EngineMetrics{
		mutations:   mutations,
		promos:      promos,
		submissions: submissions,
		saves:       saves,
	}
}

// IncMutation counts one intent outcome.
func (m *EngineMetrics) IncMutation(op, outcome string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// IncPromo counts one promo application outcome.
func (m *EngineMetrics) IncPromo(outcome string) {
	if m == nil || m.promos == nil {
		return
	}
	m.promos.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSubmission counts one order submission outcome.
func (m *EngineMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSave counts one snapshot write outcome.
func (m *EngineMetrics) IncSave(outcome string) {
	if m == nil || m.saves == nil {
		return
	}
	m.saves.WithLabelValues(normalizeLabel(outcome)).Inc()
}
