package resilience

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// Breaker metrics are labeled by dependency name (twilio, smtp) so one
// flapping channel is visible on its own.
var (
	breakerStateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "restaurant",
		Name:      "breaker_state",
		Help:      "Breaker state per dependency (0 closed, 0.5 half-open, 1 open).",
	}, []string{"dependency"})

	breakerAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Name:      "breaker_attempts_total",
		Help:      "Operations attempted through a breaker.",
	}, []string{"dependency"})

	breakerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Name:      "breaker_failures_total",
		Help:      "Operations that returned an error.",
	}, []string{"dependency"})

	breakerShortCircuitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Name:      "breaker_short_circuits_total",
		Help:      "Operations answered by the fallback because the breaker was open.",
	}, []string{"dependency"})

	breakerTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Name:      "breaker_transitions_total",
		Help:      "Breaker state transitions.",
	}, []string{"dependency", "from", "to"})

	breakerIDCounter uint64
)

// nextBreakerName returns base, or a generated name when base is empty so
// unnamed breakers do not share one metric series.
func nextBreakerName(base string) string {
	if base != "" {
		return base
	}
	id := atomic.AddUint64(&breakerIDCounter, 1)
	return "breaker-" + strconv.FormatUint(id, 10)
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 0.5
	case gobreaker.StateOpen:
		return 1
	default:
		return -1
	}
}

func recordBreakerState(name string, state gobreaker.State) {
	breakerStateGauge.WithLabelValues(name).Set(breakerStateValue(state))
}

func recordBreakerStateChange(name string, from, to gobreaker.State) {
	breakerTransitionsTotal.WithLabelValues(name, from.String(), to.String()).Inc()
	recordBreakerState(name, to)
}

func recordBreakerRequest(name string) {
	breakerAttemptsTotal.WithLabelValues(name).Inc()
}

func recordBreakerFailure(name string) {
	breakerFailuresTotal.WithLabelValues(name).Inc()
}

func recordBreakerFallback(name string) {
	breakerShortCircuitsTotal.WithLabelValues(name).Inc()
}
